package main

import (
	"errors"
)

var (
	ERR_INVALID_CONFIG      error = errors.New("Invalid configuration")
	ERR_BAD_INPUT           error = errors.New("Can't open input")
	ERR_BAD_MODEL           error = errors.New("Can't load model")
	ERR_STREAM_ENDED        error = errors.New("Stream ended")
	ERR_INTERRUPTED_BY_USER error = errors.New("Interrupted by user")
)
