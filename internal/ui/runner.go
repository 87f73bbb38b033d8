package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a multi-step command execution
type RunnerConfig struct {
	Title     string            // Command title (e.g., "Apply State")
	Command   string            // Full command (e.g., "essctl apply -f switch.yaml")
	Params    map[string]string // Parameters to display in header
	StepNames []string          // Names for each step, one per step
	Output    io.Writer         // Output writer (default: os.Stdout)

	// Hints returns troubleshooting tips for a failure. Nil uses
	// DefaultHints.
	Hints func(err error) []string
}

// DefaultHints are shown when a run fails and no Hints function is set.
var DefaultHints = []string{
	"Check the switch is reachable: essctl show info --host <switch>",
	"Set ESSCTL_LOG_LEVEL=debug to log every request",
}

// Runner orchestrates the UI for a multi-step command.
// It manages the header → progress → result flow and provides
// callbacks for reporting progress.
type Runner struct {
	config    RunnerConfig
	header    *Header
	progress  *Progress
	output    io.Writer
	before    string
	after     string
	startTime time.Time
	width     int
}

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	header := NewHeader(config.Title, config.Command, config.Params)
	header.SetWidth(width)

	var progress *Progress
	if len(config.StepNames) > 0 {
		progress = NewProgress("", len(config.StepNames))
		progress.SetWidth(width)
		progress.SetStepNames(config.StepNames)
	}

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Operation is the function signature for the work a Runner drives.
// The operation receives a StepCallback to report progress.
type Operation func(onStep StepCallback) error

// Run executes the operation with UI updates.
// It displays the header, tracks progress, and shows the result.
func (r *Runner) Run(ctx context.Context, operation Operation) error {
	_, err := r.RunWithResult(ctx, func(onStep StepCallback) (map[string]string, error) {
		return nil, operation(onStep)
	})
	return err
}

// RunWithResult executes the operation and shows the details it returns
// in the success box.
func (r *Runner) RunWithResult(ctx context.Context, operation func(onStep StepCallback) (map[string]string, error)) (map[string]string, error) {
	r.startTime = time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(r.createStepCallback())
	if err == nil {
		err = ctx.Err()
	}
	duration := time.Since(r.startTime)

	if err != nil {
		r.printFailure(err)
	} else {
		r.printSuccess(details, duration)
	}

	return details, err
}

// SetDiff stores a before/after pair shown in the result box.
func (r *Runner) SetDiff(before, after string) {
	r.before, r.after = before, after
}

// Progress exposes the step tracker, nil when the runner has no steps.
func (r *Runner) Progress() *Progress {
	return r.progress
}

// createStepCallback creates the step callback function
func (r *Runner) createStepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}

		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		step := r.progress.Steps[stepNumber-1]
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
		case StepRunning:
			// Overwritten when the step finishes
			_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
		}
	}
}

func (r *Runner) printSuccess(details map[string]string, duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)

	if details == nil {
		details = make(map[string]string)
	}
	details["Duration"] = duration.Round(time.Millisecond).String()

	result := NewSuccessResult(r.config.Title+" complete", details)
	result.SetWidth(r.width)
	if r.before != r.after {
		result.SetDiff(r.before, r.after)
	}
	_, _ = fmt.Fprintln(r.output, result.Render())
}

// printFailure prints a failure result with troubleshooting
func (r *Runner) printFailure(err error) {
	_, _ = fmt.Fprintln(r.output)

	hints := DefaultHints
	if r.config.Hints != nil {
		if h := r.config.Hints(err); len(h) > 0 {
			hints = h
		}
	}

	result := NewFailureResult(r.config.Title+" failed", err, hints)
	result.SetWidth(r.width)
	if r.before != r.after {
		result.SetDiff(r.before, r.after)
	}
	_, _ = fmt.Fprintln(r.output, result.Render())
}
