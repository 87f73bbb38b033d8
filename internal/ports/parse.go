package ports

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePortList expands range notation such as "1-3,5" into a PortSet.
// An empty string, or "none", is the empty set.
func ParsePortList(spec string) (PortSet, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "none" {
		return PortSet{}, nil
	}

	var result []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := parsePort(lo)
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", part, err)
			}
			end, err := parsePort(hi)
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", part, err)
			}
			if start > end {
				return nil, fmt.Errorf("invalid range %q: start %d greater than end %d", part, start, end)
			}
			for p := start; p <= end; p++ {
				result = append(result, p)
			}
			continue
		}

		p, err := parsePort(part)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return NewPortSet(result...), nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", strings.TrimSpace(s))
	}
	if p < 1 {
		return 0, fmt.Errorf("invalid port %d: ports are numbered from 1", p)
	}
	return p, nil
}

// ValidateRange checks that every port exists on a switch with portCount
// ports. It returns a *RangeError listing the offenders.
func ValidateRange(ports PortSet, portCount int) error {
	bad := PortSet{}
	for _, p := range ports {
		if p < 1 || p > portCount {
			bad = append(bad, p)
		}
	}
	if bad.Len() > 0 {
		return &RangeError{Ports: NewPortSet(bad...), PortCount: portCount}
	}
	return nil
}
