package deviceconfig

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/essctl/essctl/internal/logging"
	"github.com/essctl/essctl/internal/reconcile"
)

// VerificationOptions configures how read-after-write verification behaves
type VerificationOptions struct {
	// MaxRetries is the maximum number of additional verification attempts
	// Default: 3
	MaxRetries int

	// InitialDelay is the delay before the first verification attempt
	// This gives the switch time to apply the change
	// Default: 500ms
	InitialDelay time.Duration

	// RetryDelay is the delay between retry attempts
	// Default: 1s
	RetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	// If true, each retry delay is doubled (up to MaxRetryDelay)
	// Default: true
	UseExponentialBackoff bool

	// MaxRetryDelay is the maximum delay between retries when using exponential backoff
	// Default: 5s
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns sensible defaults for verification
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:            3,
		InitialDelay:          500 * time.Millisecond,
		RetryDelay:            1 * time.Second,
		UseExponentialBackoff: true,
		MaxRetryDelay:         5 * time.Second,
	}
}

// VerificationResult contains the results of a verification
type VerificationResult[T any] struct {
	// Success indicates whether the switch reported the expected state
	Success bool

	// Attempts is the number of reads made
	Attempts int

	// Actual is the last state read from the switch
	Actual T

	// Mismatches lists the differences found on the last read
	Mismatches []string

	// Error is any error that occurred during verification
	Error error
}

// VerifyWithRetry re-reads state until it equals expected or the attempts
// run out. Read errors are retried as well, since the switch often drops
// the first request after a write.
func VerifyWithRetry[T reconcile.Comparable[T]](ctx context.Context, read func(context.Context) (T, error), expected T, opts *VerificationOptions) *VerificationResult[T] {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}

	result := &VerificationResult[T]{
		Mismatches: []string{},
	}

	if err := sleep(ctx, opts.InitialDelay); err != nil {
		result.Error = err
		return result
	}

	currentDelay := opts.RetryDelay

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result.Attempts++

		if attempt > 0 {
			if err := sleep(ctx, currentDelay); err != nil {
				result.Error = err
				return result
			}

			if opts.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > opts.MaxRetryDelay {
					currentDelay = opts.MaxRetryDelay
				}
			}
		}

		actual, err := read(ctx)
		if err != nil {
			result.Error = fmt.Errorf("attempt %d: failed to read state: %w", attempt+1, err)
			if !IsRetryable(err) && !IsParseError(err) {
				return result
			}
			continue
		}

		result.Actual = actual
		result.Mismatches = Mismatches(expected, actual)

		if actual.Equal(expected) {
			result.Success = true
			result.Error = nil
			return result
		}

		logging.Warn("Verification mismatch",
			zap.Int("attempt", attempt+1),
			zap.Strings("mismatches", result.Mismatches),
		)

		if attempt < opts.MaxRetries {
			result.Error = fmt.Errorf("attempt %d: state mismatch (will retry)", attempt+1)
		} else {
			result.Error = fmt.Errorf("verification failed after %d attempts: %s", result.Attempts, formatMismatches(result.Mismatches))
		}
	}

	return result
}

// Mismatches lists field-level differences between two records of the same
// type. Records of unknown types are compared as a whole.
func Mismatches(expected, actual any) []string {
	var out []string
	add := func(field string, want, got any) {
		out = append(out, fmt.Sprintf("%s: expected %v, got %v", field, want, got))
	}

	switch want := expected.(type) {
	case reconcile.VlanRecord:
		got := actual.(reconcile.VlanRecord)
		if want.VID != got.VID {
			add("vid", want.VID, got.VID)
		}
		if want.Name != got.Name {
			add("name", fmt.Sprintf("%q", want.Name), fmt.Sprintf("%q", got.Name))
		}
		if !want.TaggedPorts.Equal(got.TaggedPorts) {
			add("tagged ports", want.TaggedPorts, got.TaggedPorts)
		}
		if !want.UntaggedPorts.Equal(got.UntaggedPorts) {
			add("untagged ports", want.UntaggedPorts, got.UntaggedPorts)
		}
		if !want.PvidPorts.Equal(got.PvidPorts) {
			add("pvid ports", want.PvidPorts, got.PvidPorts)
		}

	case reconcile.LedState:
		if got := actual.(reconcile.LedState); want != got {
			add("leds", onOff(want.Enabled), onOff(got.Enabled))
		}

	case reconcile.QVlanState:
		if got := actual.(reconcile.QVlanState); want != got {
			add("802.1Q VLAN", onOff(want.Enabled), onOff(got.Enabled))
		}

	case reconcile.PoeState:
		if got := actual.(reconcile.PoeState); !want.Equal(got) {
			add("PoE ports", want.EnabledPorts, got.EnabledPorts)
		}

	default:
		if fmt.Sprint(expected) != fmt.Sprint(actual) {
			add("state", expected, actual)
		}
	}
	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// formatMismatches creates a human-readable summary of mismatches
func formatMismatches(mismatches []string) string {
	if len(mismatches) == 0 {
		return "none"
	}
	if len(mismatches) == 1 {
		return mismatches[0]
	}
	return fmt.Sprintf("%d mismatches: %s", len(mismatches), strings.Join(mismatches, "; "))
}
