package deviceconfig

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/essctl/essctl/internal/ports"
	"github.com/essctl/essctl/internal/reconcile"
)

func fastVerify() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:    2,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: time.Millisecond,
	}
}

func vlan5(name string, tagged ...int) reconcile.VlanRecord {
	return reconcile.VlanRecord{
		VID:           5,
		Name:          name,
		TaggedPorts:   ports.NewPortSet(tagged...),
		UntaggedPorts: ports.NewPortSet(1, 2),
		PvidPorts:     ports.NewPortSet(1, 2),
	}
}

func TestEnsureVlan(t *testing.T) {
	tests := []struct {
		name        string
		desired     reconcile.VlanRecord
		check       bool
		wantChanged bool
		wantMsg     string
		wantWrites  int
	}{
		{
			name:       "already up to date",
			desired:    vlan5("eng", 3),
			wantMsg:    "VLAN 5 already up to date",
			wantWrites: 0,
		},
		{
			name:        "check mode",
			desired:     vlan5("eng", 3, 4),
			check:       true,
			wantChanged: true,
			wantMsg:     "VLAN 5 would change",
			wantWrites:  0,
		},
		{
			name:        "updated",
			desired:     vlan5("eng", 3, 4),
			wantChanged: true,
			wantMsg:     "VLAN 5 updated",
			wantWrites:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSwitch(t)

			withSession(t, fake, func(ctx context.Context, s *Session) {
				res, err := s.EnsureVlan(ctx, tt.desired, ApplyOptions{Check: tt.check, Verify: fastVerify()})
				if err != nil {
					t.Fatalf("EnsureVlan() error = %v", err)
				}
				if res.Failed {
					t.Error("result marked failed")
				}
				if res.Changed != tt.wantChanged {
					t.Errorf("Changed = %v, want %v", res.Changed, tt.wantChanged)
				}
				if res.Msg != tt.wantMsg {
					t.Errorf("Msg = %q, want %q", res.Msg, tt.wantMsg)
				}
				if tt.wantChanged != (res.Diff != nil) {
					t.Errorf("Diff = %+v, want present only when changed", res.Diff)
				}
			})

			if n := len(fake.writes()); n != tt.wantWrites {
				t.Errorf("%d writes, want %d", n, tt.wantWrites)
			}
		})
	}
}

func TestEnsureVlan_Diff(t *testing.T) {
	fake := newFakeSwitch(t)

	withSession(t, fake, func(ctx context.Context, s *Session) {
		res, err := s.EnsureVlan(ctx, vlan5("lab", 3), ApplyOptions{Check: true})
		if err != nil {
			t.Fatalf("EnsureVlan() error = %v", err)
		}
		if res.Diff == nil {
			t.Fatal("Diff missing")
		}
		wantBefore := "vid: 5\nname: eng\ntagged: [3]\nuntagged: [1, 2]\npvid: [1, 2]\n"
		if res.Diff.Before != wantBefore {
			t.Errorf("Before = %q, want %q", res.Diff.Before, wantBefore)
		}
		if !strings.Contains(res.Diff.After, "name: lab\n") {
			t.Errorf("After = %q, want new name", res.Diff.After)
		}
	})
}

func TestEnsureVlan_NotConfirmed(t *testing.T) {
	fake := newFakeSwitch(t)
	fake.ignoreWrites = true

	withSession(t, fake, func(ctx context.Context, s *Session) {
		res, err := s.EnsureVlan(ctx, vlan5("eng", 3, 4), ApplyOptions{Verify: fastVerify()})
		if err == nil {
			t.Fatal("EnsureVlan() should fail when the switch ignores the write")
		}
		if !res.Failed || !res.Changed {
			t.Errorf("result = %+v, want failed and changed", res)
		}
		if res.Msg != err.Error() {
			t.Errorf("Msg = %q, want the error text", res.Msg)
		}
		if !strings.Contains(err.Error(), "not confirmed") || !strings.Contains(err.Error(), "tagged ports") {
			t.Errorf("error = %v", err)
		}
	})

	if n := len(fake.writes()); n != 1 {
		t.Errorf("%d writes, want exactly 1", n)
	}
}

func TestEnsureVlan_QVlanDisabled(t *testing.T) {
	fake := newFakeSwitch(t)
	fake.qvlan = false

	withSession(t, fake, func(ctx context.Context, s *Session) {
		res, err := s.EnsureVlan(ctx, vlan5("eng", 3), ApplyOptions{})
		if !errors.Is(err, ErrQVlanDisabled) {
			t.Errorf("EnsureVlan() error = %v, want ErrQVlanDisabled", err)
		}
		if !res.Failed || res.Changed {
			t.Errorf("result = %+v, want failed and unchanged", res)
		}
	})
}

func TestEnsureLEDs(t *testing.T) {
	fake := newFakeSwitch(t)

	withSession(t, fake, func(ctx context.Context, s *Session) {
		res, err := s.EnsureLEDs(ctx, reconcile.LedState{Enabled: false}, ApplyOptions{Verify: fastVerify()})
		if err != nil {
			t.Fatalf("EnsureLEDs() error = %v", err)
		}
		if !res.Changed || res.Msg != "LEDs updated" {
			t.Errorf("result = %+v", res)
		}

		res, err = s.EnsureLEDs(ctx, reconcile.LedState{Enabled: false}, ApplyOptions{Verify: fastVerify()})
		if err != nil || res.Changed {
			t.Errorf("second EnsureLEDs() = %+v, %v; want unchanged", res, err)
		}
	})
}

func TestEnsureQVlan(t *testing.T) {
	fake := newFakeSwitch(t)
	fake.qvlan = false

	withSession(t, fake, func(ctx context.Context, s *Session) {
		res, err := s.EnsureQVlan(ctx, reconcile.QVlanState{Enabled: true}, ApplyOptions{Verify: fastVerify()})
		if err != nil {
			t.Fatalf("EnsureQVlan() error = %v", err)
		}
		if !res.Changed || res.Msg != "802.1Q VLAN mode updated" {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestEnsurePoe(t *testing.T) {
	tests := []struct {
		name        string
		desired     ports.PortSet
		check       bool
		wantChanged bool
		wantErr     error
	}{
		{name: "matches", desired: ports.NewPortSet(1, 2)},
		{name: "differs in check mode", desired: ports.NewPortSet(1), check: true, wantChanged: true},
		{name: "differs", desired: ports.NewPortSet(1, 2, 3), wantChanged: true, wantErr: ErrPoeReadOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSwitch(t)

			withSession(t, fake, func(ctx context.Context, s *Session) {
				res, err := s.EnsurePoe(ctx, reconcile.PoeState{EnabledPorts: tt.desired}, ApplyOptions{Check: tt.check})
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("EnsurePoe() error = %v, want %v", err, tt.wantErr)
				}
				if res.Changed != tt.wantChanged {
					t.Errorf("Changed = %v, want %v", res.Changed, tt.wantChanged)
				}
				if res.Failed != (tt.wantErr != nil) {
					t.Errorf("Failed = %v", res.Failed)
				}
			})

			if n := len(fake.writes()); n != 0 {
				t.Errorf("%d writes, want none", n)
			}
		})
	}
}
