package executor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Replay serves recorded outputs instead of running commands. Commands
// missing from the fixture are reported unavailable, as they would be on
// a machine without the tool.
type Replay struct {
	outputs map[string]RecordedCommand

	mu    sync.Mutex
	calls map[string]int
}

func NewReplay(f *Fixture) *Replay {
	r := &Replay{outputs: make(map[string]RecordedCommand), calls: make(map[string]int)}
	if f != nil {
		for _, c := range f.Commands {
			r.outputs[c.Key] = c
		}
	}
	return r
}

func (r *Replay) Run(ctx context.Context, cmd domain.Command, timeout time.Duration) domain.CommandOutput {
	key := cmd.Key()
	r.mu.Lock()
	r.calls[key]++
	r.mu.Unlock()

	rc, ok := r.outputs[key]
	if !ok {
		return domain.CommandOutput{Failure: domain.FailureUnavailable}
	}
	if rc.Delay > 0 {
		wait := rc.Delay
		timedOut := timeout > 0 && wait > timeout
		if timedOut {
			wait = timeout
		}
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return domain.CommandOutput{Failure: domain.FailureTimeout}
		case <-t.C:
		}
		if timedOut {
			return domain.CommandOutput{Failure: domain.FailureTimeout}
		}
	}
	return rc.output()
}

// Calls returns the keys of every command requested so far, sorted.
func (r *Replay) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.calls))
	for k := range r.calls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
