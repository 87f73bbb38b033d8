package ui

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestLineDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []DiffLine
	}{
		{
			name:   "identical",
			before: "vid: 5\nname: eng\n",
			after:  "vid: 5\nname: eng\n",
			want:   []DiffLine{{' ', "vid: 5"}, {' ', "name: eng"}},
		},
		{
			name:   "changed line",
			before: "vid: 5\nname: eng\n",
			after:  "vid: 5\nname: lab\n",
			want:   []DiffLine{{' ', "vid: 5"}, {'-', "name: eng"}, {'+', "name: lab"}},
		},
		{
			name:   "from empty",
			before: "",
			after:  "vid: 5\n",
			want:   []DiffLine{{'+', "vid: 5"}},
		},
		{
			name:   "to empty",
			before: "leds: true\n",
			after:  "",
			want:   []DiffLine{{'-', "leds: true"}},
		},
		{
			name:   "both empty",
			before: "",
			after:  "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineDiff(tt.before, tt.after)
			if !slices.Equal(got, tt.want) {
				t.Errorf("LineDiff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"yes with spaces", "  yes  \n", true},
		{"yes without newline", "yes", true},
		{"capitalised", "Yes\n", false},
		{"no", "no\n", false},
		{"empty", "", false},
		{"blank line", "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "TEST", []string{"something happens"})
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "something happens") {
				t.Error("warning text not shown")
			}
			if cancelled := strings.Contains(out.String(), "Operation cancelled"); cancelled == tt.want && tt.input != "" {
				t.Errorf("cancel message shown = %v, want %v", cancelled, !tt.want)
			}
		})
	}
}

func TestRunner(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRunner(RunnerConfig{
			Title:     "Apply State",
			Command:   "essctl apply -f s.yaml",
			StepNames: []string{"LEDs", "VLAN 5"},
			Output:    &out,
		})

		details, err := r.RunWithResult(context.Background(), func(onStep StepCallback) (map[string]string, error) {
			onStep(1, "", StepRunning, "")
			onStep(1, "", StepSkipped, "already up to date")
			onStep(2, "VLAN 5 (eng)", StepComplete, "updated")
			return map[string]string{"Changed": "1"}, nil
		})
		if err != nil {
			t.Fatalf("RunWithResult() error = %v", err)
		}
		if details["Duration"] == "" {
			t.Error("Duration detail not set")
		}

		s := out.String()
		for _, want := range []string{"APPLY STATE", "VLAN 5 (eng)", "already up to date", "Apply State complete", "Changed"} {
			if !strings.Contains(s, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if p := r.Progress(); p.Percent != 1 {
			t.Errorf("Percent = %v, want 1", p.Percent)
		}
	})

	t.Run("failure uses hints", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRunner(RunnerConfig{
			Title:  "Apply State",
			Output: &out,
			Hints: func(err error) []string {
				return []string{"hint for " + err.Error()}
			},
		})

		boom := errors.New("boom")
		if err := r.Run(context.Background(), func(StepCallback) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("Run() error = %v, want %v", err, boom)
		}
		s := out.String()
		if !strings.Contains(s, "Apply State failed") || !strings.Contains(s, "hint for boom") {
			t.Errorf("unexpected output:\n%s", s)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewRunner(RunnerConfig{Title: "Apply State", Output: &bytes.Buffer{}})
		if err := r.Run(ctx, func(StepCallback) error { return nil }); !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	})
}

func TestPrinterPlainWriter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)
	p.PrintSuccess("VLAN 5 updated", map[string]string{"Switch": "sw1"})

	s := out.String()
	if !strings.Contains(s, "VLAN 5 updated") || !strings.Contains(s, "sw1") {
		t.Errorf("unexpected output:\n%s", s)
	}
}
