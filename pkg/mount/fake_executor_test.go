package mount

import (
	"context"
	"sync"
)

// fakeExecutor returns canned results and records every command it is given
type fakeExecutor struct {
	mu      sync.Mutex
	results []CommandResult
	err     error
	calls   []Command
}

func newFakeExecutor(results ...CommandResult) *fakeExecutor {
	return &fakeExecutor{results: results}
}

func (f *fakeExecutor) Execute(_ context.Context, cmd Command) (*CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)
	if f.err != nil {
		return nil, f.err
	}

	if len(f.results) == 0 {
		return &CommandResult{Success: true}, nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return &result, nil
}

func (f *fakeExecutor) commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}
