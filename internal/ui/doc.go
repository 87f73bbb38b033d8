// Package ui provides terminal UI components for the essctl CLI.
//
// This package uses Bubble Tea and Lipgloss to render terminal output for
// commands that change a switch. The components follow a "run once and
// exit" pattern: they render output but never wait for input, with the
// single exception of Confirm.
//
// # Architecture
//
//   - Header: Command banner showing the operation and its parameters
//   - Progress: Progress bar with a step list showing per-setting status
//   - Result: Success, failure or warning box, optionally with a diff
//   - Diff: Line diff of before/after YAML, coloured by operation
//
// Runner ties them together for multi-step commands such as apply:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Apply State",
//	    Command:   "essctl apply -f office.yaml",
//	    Params:    map[string]string{"Switch": "office-sw1"},
//	    StepNames: []string{"LEDs", "VLAN 20"},
//	})
//
//	err := runner.Run(ctx, func(onStep ui.StepCallback) error {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "updated")
//	    return nil
//	})
//
// # Logging Integration
//
// Logging is controlled via the ESSCTL_LOG_LEVEL environment variable. When
// it is unset, zap logging is silent so the rendered output stays clean.
package ui
