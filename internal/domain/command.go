package domain

import (
	"strings"
)

// FailureReason classifies why a diagnostic step produced no usable data.
// Failures are values: nothing in the audit core returns them as errors.
type FailureReason string

const (
	// FailureUnavailable means the binary is missing or the command is
	// unsupported on this OS.
	FailureUnavailable FailureReason = "command_unavailable"
	// FailureTimeout means the command exceeded its allotted time.
	FailureTimeout FailureReason = "command_timeout"
	// FailureExit means the command exited with a non-zero status.
	FailureExit FailureReason = "command_failed"
	// FailureEncoding means the output was not valid UTF-8 text.
	FailureEncoding FailureReason = "encoding_error"
	// FailureParse means output was present but not in the expected shape.
	FailureParse FailureReason = "parse_failure"
	// FailureUnsupportedMetric means the platform has no way to obtain
	// the metric at all.
	FailureUnsupportedMetric FailureReason = "unsupported_metric"
)

// Command is a native diagnostic command. Args may contain {name}
// placeholders that Expand fills in.
type Command struct {
	// ID is the capability-table key the command was resolved from.
	ID   string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name string   `yaml:"name" json:"name"`
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
	// AllowNonZeroExit keeps stdout when the command exits non-zero.
	// smartctl reports disk state through its exit status bits.
	AllowNonZeroExit bool `yaml:"allow_non_zero_exit,omitempty" json:"allow_non_zero_exit,omitempty"`

	subject string
}

// Expand substitutes {key} placeholders in the arguments. The value of
// the "device" placeholder becomes the command's subject.
func (c Command) Expand(vars map[string]string) Command {
	out := c
	out.Args = make([]string, len(c.Args))
	for i, arg := range c.Args {
		for k, v := range vars {
			arg = strings.ReplaceAll(arg, "{"+k+"}", v)
		}
		out.Args[i] = arg
	}
	if dev, ok := vars["device"]; ok {
		out.subject = dev
	}
	return out
}

// Key identifies the command for record and replay. Commands resolved from
// the capability table are keyed by ID (plus subject); ad-hoc commands by
// their command line.
func (c Command) Key() string {
	if c.ID == "" {
		return c.String()
	}
	if c.subject != "" {
		return c.ID + "@" + c.subject
	}
	return c.ID
}

// String renders the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// CommandOutput is the outcome of one command invocation: either text or a
// typed failure. Text is empty whenever Failure is set, so callers can tell
// "no output" apart from "empty but valid output".
type CommandOutput struct {
	Text    string        `yaml:"output,omitempty" json:"output,omitempty"`
	Failure FailureReason `yaml:"failure,omitempty" json:"failure,omitempty"`
}

// OK reports whether the command succeeded.
func (o CommandOutput) OK() bool { return o.Failure == "" }

// Blank reports a successful command that printed nothing but whitespace.
func (o CommandOutput) Blank() bool { return o.OK() && strings.TrimSpace(o.Text) == "" }
