package ui

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffLine is one line of a line diff.
type DiffLine struct {
	Op   byte // ' ', '-' or '+'
	Text string
}

// LineDiff compares two texts line by line. Every line of both texts
// appears in the result exactly once.
func LineDiff(before, after string) []DiffLine {
	a := splitLines(before)
	b := splitLines(after)

	var out []DiffLine
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'e':
			for _, line := range a[op.I1:op.I2] {
				out = append(out, DiffLine{' ', line})
			}
		case 'd':
			for _, line := range a[op.I1:op.I2] {
				out = append(out, DiffLine{'-', line})
			}
		case 'i':
			for _, line := range b[op.J1:op.J2] {
				out = append(out, DiffLine{'+', line})
			}
		case 'r':
			for _, line := range a[op.I1:op.I2] {
				out = append(out, DiffLine{'-', line})
			}
			for _, line := range b[op.J1:op.J2] {
				out = append(out, DiffLine{'+', line})
			}
		}
	}
	return out
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// RenderDiff renders a colored unified-style diff of two YAML documents.
func RenderDiff(before, after string) string {
	lines := LineDiff(before, after)
	rendered := make([]string, len(lines))
	for i, l := range lines {
		text := "   " + string(l.Op) + " " + l.Text
		switch l.Op {
		case '-':
			rendered[i] = DiffRemovedStyle.Render(text)
		case '+':
			rendered[i] = DiffAddedStyle.Render(text)
		default:
			rendered[i] = DiffContextStyle.Render(text)
		}
	}
	return strings.Join(rendered, "\n")
}
