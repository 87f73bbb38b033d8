package deviceconfig

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/essctl/essctl/internal/ports"
	"github.com/essctl/essctl/internal/reconcile"
)

const (
	// MinVID and MaxVID bound usable 802.1Q VLAN IDs.
	MinVID = 1
	MaxVID = 4094

	// MaxVlanNameLength is the longest VLAN name the web UI accepts.
	MaxVlanNameLength = 32
)

// ValidateVID validates an 802.1Q VLAN ID (1-4094).
func ValidateVID(vid int) error {
	if vid < MinVID || vid > MaxVID {
		return NewValidationError(fmt.Sprintf("VLAN ID must be %d-%d, got %d", MinVID, MaxVID, vid))
	}
	return nil
}

// ValidateVlanName validates a VLAN name: non-empty, at most 32 characters,
// printable ASCII only.
func ValidateVlanName(name string) error {
	if name == "" {
		return NewValidationError("VLAN name cannot be empty")
	}
	if len(name) > MaxVlanNameLength {
		return NewValidationError(fmt.Sprintf("VLAN name too long (max %d chars): %d chars", MaxVlanNameLength, len(name)))
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return NewValidationError(fmt.Sprintf("VLAN name contains invalid character %q", r))
		}
	}
	return nil
}

// ValidatePorts checks that every port in set exists on the switch.
func ValidatePorts(label string, set ports.PortSet, portCount int) error {
	if err := ports.ValidateRange(set, portCount); err != nil {
		return newValidationErrorWithCause(fmt.Sprintf("%s ports", label), err)
	}
	return nil
}

// ValidateVlanRecord validates a desired VLAN against a switch with
// portCount ports. Returns a slice of validation errors (empty if valid);
// entries prefixed "warning:" are not fatal.
func ValidateVlanRecord(r reconcile.VlanRecord, portCount int) []error {
	var errs []error

	if err := ValidateVID(r.VID); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateVlanName(r.Name); err != nil {
		errs = append(errs, err)
	}

	for _, set := range []struct {
		label string
		ports ports.PortSet
	}{
		{"tagged", r.TaggedPorts},
		{"untagged", r.UntaggedPorts},
		{"pvid", r.PvidPorts},
	} {
		if err := ValidatePorts(set.label, set.ports, portCount); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := ports.PortsToTagCodes(portCount, r.TaggedPorts, r.UntaggedPorts); err != nil {
		errs = append(errs, newValidationErrorWithCause(fmt.Sprintf("VLAN %d", r.VID), err))
	}

	errs = append(errs, CheckLogicalConflicts(r)...)
	return errs
}

// CheckLogicalConflicts checks for settings that the switch accepts but that
// are probably not what the user meant.
func CheckLogicalConflicts(r reconcile.VlanRecord) []error {
	var conflicts []error

	if notUntagged := pvidNotUntagged(r); notUntagged.Len() > 0 {
		conflicts = append(conflicts, NewValidationError(
			fmt.Sprintf("warning: VLAN %d is the PVID of ports %s but they are not untagged members", r.VID, notUntagged),
		))
	}

	if r.TaggedPorts.Len() == 0 && r.UntaggedPorts.Len() == 0 {
		conflicts = append(conflicts, NewValidationError(
			fmt.Sprintf("warning: VLAN %d has no member ports", r.VID),
		))
	}

	return conflicts
}

func pvidNotUntagged(r reconcile.VlanRecord) ports.PortSet {
	out := ports.PortSet{}
	for _, p := range r.PvidPorts {
		if !r.UntaggedPorts.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

func newValidationErrorWithCause(message string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeValidation,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// FormatValidationErrors formats a slice of validation errors into a user-friendly message.
func FormatValidationErrors(errs []error) string {
	if len(errs) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n", len(errs)))

	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}

	return sb.String()
}

// IsWarning checks if a validation error is a warning (non-fatal).
// Warnings have error messages starting with "warning:".
func IsWarning(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return strings.HasPrefix(devErr.Message, "warning:")
	}
	return strings.Contains(err.Error(), "warning:")
}

// SeparateWarningsAndErrors separates validation errors into warnings and errors.
func SeparateWarningsAndErrors(errs []error) (warnings []error, criticalErrors []error) {
	for _, err := range errs {
		if IsWarning(err) {
			warnings = append(warnings, err)
		} else {
			criticalErrors = append(criticalErrors, err)
		}
	}
	return warnings, criticalErrors
}
