package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// TeardownStack collects cleanup functions and runs them in reverse order of
// registration. It runs at most once: after the first Teardown further calls
// are no-ops and Add is rejected.
type TeardownStack struct {
	mu    sync.Mutex
	stack []func(context.Context) error
	done  bool
}

func NewTeardownStack() *TeardownStack {
	return &TeardownStack{}
}

func (s *TeardownStack) Add(f func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return fmt.Errorf("teardown already done")
	}
	s.stack = append(s.stack, f)
	return nil
}

// Teardown runs every registered function, last added first. A failing
// function does not stop the remaining ones; all failures are joined.
func (s *TeardownStack) Teardown(ctx context.Context) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return nil
	}
	s.done = true
	stack := s.stack
	s.stack = nil
	s.mu.Unlock()

	var errs []error
	for i := len(stack) - 1; i >= 0; i-- {
		if err := stack[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to tear down resources: %w", errors.Join(errs...))
	}
	return nil
}

// Done reports whether Teardown has been called.
func (s *TeardownStack) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
