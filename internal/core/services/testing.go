package services

import (
	"context"
	"sync"
)

// FakeService records the inputs it was run with and returns the configured
// result.
type FakeService[T any, S any] struct {
	Inputs   []T
	Contexts []context.Context
	Result   S
	Err      error
	lock     sync.Mutex
}

func NewFakeService[T any, S any](result S, err error) *FakeService[T, S] {
	return &FakeService[T, S]{Result: result, Err: err}
}

func (s *FakeService[T, S]) Run(ctx context.Context, input T) (S, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Inputs = append(s.Inputs, input)
	s.Contexts = append(s.Contexts, ctx)
	return s.Result, s.Err
}

func (s *FakeService[T, S]) LastInput() T {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.Inputs) == 0 {
		var input T
		return input
	}
	return s.Inputs[len(s.Inputs)-1]
}
