package deviceconfig

import (
	"context"
	"fmt"

	"github.com/essctl/essctl/internal/reconcile"
)

// ApplyOptions controls the read, diff, write, verify sequence.
type ApplyOptions struct {
	// Check stops after the diff; nothing is written.
	Check bool

	// Verify configures the read-after-write check (nil = defaults).
	Verify *VerificationOptions
}

// ensure reads the current state, diffs it against desired and, unless in
// check mode or already converged, writes and verifies. The returned error
// is non-nil exactly when the result is marked failed.
func ensure[T reconcile.Comparable[T]](
	ctx context.Context,
	what string,
	read func(context.Context) (T, error),
	write func(ctx context.Context, actual, desired T) error,
	desired T,
	opts ApplyOptions,
) (Result, error) {
	var res Result

	fail := func(err error) (Result, error) {
		res.Failed = true
		res.Msg = err.Error()
		return res, err
	}

	actual, err := read(ctx)
	if err != nil {
		return fail(err)
	}

	diff := reconcile.Compare(actual, desired)
	res.Changed = diff.Changed
	if diff.Changed {
		before, after, err := diff.YAML()
		if err != nil {
			return fail(err)
		}
		res.Diff = &ResultDiff{Before: before, After: after}
	}

	switch {
	case !diff.Changed:
		res.Msg = fmt.Sprintf("%s already up to date", what)
		return res, nil
	case opts.Check:
		res.Msg = fmt.Sprintf("%s would change", what)
		return res, nil
	}

	if err := write(ctx, actual, desired); err != nil {
		return fail(err)
	}

	verification := VerifyWithRetry(ctx, read, desired, opts.Verify)
	if !verification.Success {
		return fail(fmt.Errorf("%s was written but not confirmed: %w", what, verification.Error))
	}

	res.Msg = fmt.Sprintf("%s updated", what)
	return res, nil
}

// EnsureVlan brings one VLAN to the desired name, membership and PVIDs.
func (s *Session) EnsureVlan(ctx context.Context, desired reconcile.VlanRecord, opts ApplyOptions) (Result, error) {
	read := func(ctx context.Context) (reconcile.VlanRecord, error) {
		return s.GetVlan(ctx, desired.VID)
	}
	write := func(ctx context.Context, actual, desired reconcile.VlanRecord) error {
		_, err := s.ApplyVlan(ctx, actual, desired)
		return err
	}
	return ensure(ctx, fmt.Sprintf("VLAN %d", desired.VID), read, write, desired, opts)
}

// EnsureLEDs switches the port LEDs to the desired state.
func (s *Session) EnsureLEDs(ctx context.Context, desired reconcile.LedState, opts ApplyOptions) (Result, error) {
	write := func(ctx context.Context, _, desired reconcile.LedState) error {
		return s.SetLEDs(ctx, desired.Enabled)
	}
	return ensure(ctx, "LEDs", s.GetLEDs, write, desired, opts)
}

// EnsureQVlan switches 802.1Q VLAN mode to the desired state.
func (s *Session) EnsureQVlan(ctx context.Context, desired reconcile.QVlanState, opts ApplyOptions) (Result, error) {
	write := func(ctx context.Context, _, desired reconcile.QVlanState) error {
		return s.SetQVlan(ctx, desired.Enabled)
	}
	return ensure(ctx, "802.1Q VLAN mode", s.GetQVlan, write, desired, opts)
}

// EnsurePoe compares the PoE-enabled ports with desired. PoE cannot be
// written, so any needed change fails with ErrPoeReadOnly outside check mode.
func (s *Session) EnsurePoe(ctx context.Context, desired reconcile.PoeState, opts ApplyOptions) (Result, error) {
	read := func(ctx context.Context) (reconcile.PoeState, error) {
		rec, err := s.GetPoe(ctx)
		if err != nil {
			return reconcile.PoeState{}, err
		}
		return rec.State(), nil
	}
	write := func(context.Context, reconcile.PoeState, reconcile.PoeState) error {
		return NewUnsupportedError("PoE ports differ from the desired state", ErrPoeReadOnly)
	}
	return ensure(ctx, "PoE", read, write, desired, opts)
}
