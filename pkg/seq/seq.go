package seq

import (
	"cmp"
	"iter"
)

func SMap[E, T any](s []T, f func(T, int) E) []E {
	ret := make([]E, len(s))
	for i, v := range s {
		ret[i] = f(v, i)
	}
	return ret
}

func MaxInd[I any, T cmp.Ordered](it iter.Seq2[I, T]) (I, T) {
	var set bool
	var current_max T
	var current_max_ind I
	for i, v := range it {
		if !set || v > current_max {
			current_max_ind = i
			current_max = v
			set = true
		}
	}
	return current_max_ind, current_max
}

func MinInd[I any, T cmp.Ordered](it iter.Seq2[I, T]) (I, T) {
	var set bool
	var current_min T
	var current_min_ind I
	for i, v := range it {
		if !set || v < current_min {
			current_min_ind = i
			current_min = v
			set = true
		}
	}
	return current_min_ind, current_min
}
