package stream

import (
	"context"
	"iter"
)

// Fold left-folds fn over seq, threading the accumulator from init.
// The first error in seq stops the fold; the zero accumulator is returned with it,
// never a partial result.
func Fold[T any, A any](seq iter.Seq2[T, error], init A, fn func(acc A, element T) A) (A, error) {
	acc := init
	for element, err := range seq {
		if err != nil {
			var zero A
			return zero, err
		}
		acc = fn(acc, element)
	}
	return acc, nil
}

// Limit yields at most n elements of seq, then stops pulling from it.
// Errors count as elements.
func Limit[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for element, err := range seq {
			if !yield(element, err) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	}
}

// Each calls fn for each element of seq, stopping at the first error from seq or fn.
func Each[T any](seq iter.Seq2[T, error], fn func(element T) error) error {
	for element, err := range seq {
		if err != nil {
			return err
		}
		if err := fn(element); err != nil {
			return err
		}
	}
	return nil
}

// Slice iterates in as a sequence without errors.
func Slice[T any](in []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, element := range in {
			if !yield(element, nil) {
				return
			}
		}
	}
}

// WithContext passes seq through until ctx is done,
// then yields ctx's error as the last element and stops pulling from seq.
// ctx is checked before each element is pulled.
func WithContext[T any](ctx context.Context, seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if err := ctx.Err(); err != nil {
			yield(zero, err)
			return
		}
		for element, err := range seq {
			if !yield(element, err) {
				return
			}
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}
		}
	}
}
