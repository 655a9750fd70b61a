package executor

import (
	"context"
	"sync"
	"time"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Recorder wraps a CommandRunner and captures every command it runs.
// It is safe for concurrent use by probes.
type Recorder struct {
	next domain.CommandRunner

	mu       sync.Mutex
	commands map[string]RecordedCommand
}

func NewRecorder(next domain.CommandRunner) *Recorder {
	return &Recorder{next: next, commands: make(map[string]RecordedCommand)}
}

func (r *Recorder) Run(ctx context.Context, cmd domain.Command, timeout time.Duration) domain.CommandOutput {
	out := r.next.Run(ctx, cmd, timeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Key()] = RecordedCommand{
		Key:     cmd.Key(),
		Line:    cmd.String(),
		Output:  out.Text,
		Failure: out.Failure,
	}
	return out
}

// Fixture returns what has been recorded so far, sorted by key.
func (r *Recorder) Fixture(platform domain.Platform, at time.Time) *Fixture {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := &Fixture{Platform: platform, RecordedAt: at.UTC()}
	for _, c := range r.commands {
		f.Commands = append(f.Commands, c)
	}
	f.Sort()
	return f
}
