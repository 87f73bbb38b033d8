package ports

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PortSet is a sorted, duplicate-free set of 1-based port numbers.
// The zero value is the empty set.
type PortSet []int

// NewPortSet builds a set from ports in any order, dropping duplicates.
func NewPortSet(ports ...int) PortSet {
	if len(ports) == 0 {
		return PortSet{}
	}
	s := slices.Clone(ports)
	slices.Sort(s)
	return PortSet(slices.Compact(s))
}

// Contains reports whether port is in the set. It does not rely on s being
// sorted, so a PortSet built as a literal is safe to query.
func (s PortSet) Contains(port int) bool {
	return slices.Contains(s, port)
}

// Len returns the number of ports in the set.
func (s PortSet) Len() int { return len(s) }

// Ints returns the ports as a new slice.
func (s PortSet) Ints() []int {
	return append([]int{}, s...)
}

// Equal compares as sets. A nil set equals an empty one.
func (s PortSet) Equal(other PortSet) bool {
	return slices.Equal(NewPortSet(s...), NewPortSet(other...))
}

// Intersect returns the ports present in both sets.
func (s PortSet) Intersect(other PortSet) PortSet {
	out := PortSet{}
	for _, p := range s {
		if other.Contains(p) {
			out = append(out, p)
		}
	}
	return NewPortSet(out...)
}

// String renders the set in range notation, e.g. "1-3,5". The empty set
// renders as "none".
func (s PortSet) String() string {
	if len(s) == 0 {
		return "none"
	}
	sorted := NewPortSet(s...)

	var parts []string
	start, end := sorted[0], sorted[0]
	flush := func() {
		if start == end {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, end))
		}
	}
	for _, p := range sorted[1:] {
		if p == end+1 {
			end = p
			continue
		}
		flush()
		start, end = p, p
	}
	flush()
	return strings.Join(parts, ",")
}

// MarshalYAML writes the set as a flow sequence of port numbers.
func (s PortSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, p := range s {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p)})
	}
	return node, nil
}

// UnmarshalYAML accepts a sequence of port numbers, a single port number, or
// a range string such as "1-3,5".
func (s *PortSet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []int
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("line %d: port list: %w", value.Line, err)
		}
		for _, p := range list {
			if p < 1 {
				return fmt.Errorf("line %d: invalid port %d", value.Line, p)
			}
		}
		*s = NewPortSet(list...)
		return nil

	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = PortSet{}
			return nil
		}
		set, err := ParsePortList(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*s = set
		return nil
	}
	return fmt.Errorf("line %d: ports must be a list or a range string", value.Line)
}
