package synapse

import (
	"encoding/json"

	"github.com/Robogera/roadwatch/pkg/lanes"
	"github.com/Robogera/roadwatch/pkg/registry"
)

// Wire format of the periodic traffic snapshot published over MQTT

type Command struct {
	Id      uint     `json:"id"`
	Sender  string   `json:"sender"`
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

type Message struct {
	Frame  uint64                    `json:"frame"`
	Counts map[string]uint64         `json:"counts"`
	Total  uint64                    `json:"total"`
	Tracks []*registry.ExportedTrack `json:"tracks"`
	Lanes  []lanes.Segment           `json:"lanes"`
}

func (c *Command) ToPayload() ([]byte, error) {
	return json.Marshal(c)
}
