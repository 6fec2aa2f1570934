package core

import "iter"

// Take yields at most limit items of seq and stops pulling from seq once
// the limit is reached.
func Take[T any](seq iter.Seq[T], limit int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if seq == nil || limit <= 0 {
			return
		}
		count := 0
		for item := range seq {
			if !yield(item) {
				return
			}
			count++
			if count >= limit {
				return
			}
		}
	}
}

// SliceSeq is a restartable sequence over items.
func SliceSeq[T any](items []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}
