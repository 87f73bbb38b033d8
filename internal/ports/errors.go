package ports

import (
	"errors"
	"fmt"
)

// ErrConflictingMembership means a port was requested as both tagged and
// untagged in the same VLAN.
var ErrConflictingMembership = errors.New("conflicting port membership")

// ErrPortOutOfRange means a port number is outside 1..portCount.
var ErrPortOutOfRange = errors.New("port out of range")

// ConflictError lists the ports present in both the tagged and untagged sets.
type ConflictError struct {
	Ports PortSet
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: ports %s are both tagged and untagged", ErrConflictingMembership, e.Ports)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictingMembership
}

// RangeError lists ports that do not exist on a switch with PortCount ports.
type RangeError struct {
	Ports     PortSet
	PortCount int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: ports %s (switch has %d ports)", ErrPortOutOfRange, e.Ports, e.PortCount)
}

func (e *RangeError) Unwrap() error {
	return ErrPortOutOfRange
}
