package reconcile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Comparable is a record that knows its own equality.
type Comparable[T any] interface {
	Equal(T) bool
}

// Diff is the outcome of comparing the switch's state with the desired one.
type Diff[T any] struct {
	Changed bool `yaml:"changed" json:"changed"`
	Before  T    `yaml:"before" json:"before"`
	After   T    `yaml:"after" json:"after"`
}

// Compare reports whether actual must change to become desired.
func Compare[T Comparable[T]](actual, desired T) Diff[T] {
	return Diff[T]{
		Changed: !actual.Equal(desired),
		Before:  actual,
		After:   desired,
	}
}

// YAML renders the before and after records as YAML documents.
func (d Diff[T]) YAML() (before, after string, err error) {
	b, err := yaml.Marshal(d.Before)
	if err != nil {
		return "", "", fmt.Errorf("marshal before: %w", err)
	}
	a, err := yaml.Marshal(d.After)
	if err != nil {
		return "", "", fmt.Errorf("marshal after: %w", err)
	}
	return string(b), string(a), nil
}
