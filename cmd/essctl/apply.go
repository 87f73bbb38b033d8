package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/essctl/essctl/internal/config"
	"github.com/essctl/essctl/internal/deviceconfig"
	"github.com/essctl/essctl/internal/reconcile"
	"github.com/essctl/essctl/internal/ui"
)

var stateFile string

// applyCmd brings a switch to the state described in a YAML file
var applyCmd = &cobra.Command{
	Use:   "apply -f <state.yaml>",
	Short: "Apply a desired-state file",
	Long: `Bring a switch to the state described in a YAML file.

Settings left out of the file are not touched. Each setting is read,
compared and, if different, written and read back. 802.1Q mode is enabled
before VLANs are changed.

  leds: true
  vlan_8021q: true
  vlans:
    - vid: 20
      name: voice
      tagged: [8]
      untagged: "5-6"
      pvid: "5-6"
  poe_ports: "1-4"

PoE ports are only compared; a difference is reported as a failure.`,
	Example: `  # Preview
  essctl apply -f office.yaml --host office-sw1 --check

  # Apply and print the results as YAML
  essctl apply -f office.yaml --host office-sw1 --format yaml`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&stateFile, "file", "f", "", "Desired-state YAML file")
	applyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before disabling 802.1Q mode")
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

// applyStep is one setting of a state file.
type applyStep struct {
	name  string
	kind  stepKind
	apply func(ctx context.Context, s *deviceconfig.Session, opts deviceconfig.ApplyOptions) (deviceconfig.Result, error)
}

type stepKind int

const (
	stepQVlan stepKind = iota
	stepVlan
	stepOther
)

// stepResult is one entry of the structured apply output.
type stepResult struct {
	Step                string `yaml:"step" json:"step"`
	deviceconfig.Result `yaml:",inline"`
}

// planSteps orders the settings of a state file: 802.1Q mode first so the
// VLAN pages are readable, then VLANs in file order, then the rest.
func planSteps(state *config.DesiredState) ([]applyStep, error) {
	if state.QVlan != nil && !*state.QVlan && len(state.Vlans) > 0 {
		return nil, errors.New("vlans cannot be set with vlan_8021q: false")
	}

	var steps []applyStep
	if state.QVlan != nil {
		desired := reconcile.QVlanState{Enabled: *state.QVlan}
		steps = append(steps, applyStep{
			name: "802.1Q VLAN mode " + onOff(desired.Enabled),
			kind: stepQVlan,
			apply: func(ctx context.Context, s *deviceconfig.Session, opts deviceconfig.ApplyOptions) (deviceconfig.Result, error) {
				return s.EnsureQVlan(ctx, desired, opts)
			},
		})
	}

	for _, v := range state.Vlans {
		name := fmt.Sprintf("VLAN %d", v.VID)
		if v.Name != "" {
			name += fmt.Sprintf(" (%s)", v.Name)
		}
		steps = append(steps, applyStep{
			name: name,
			kind: stepVlan,
			apply: func(ctx context.Context, s *deviceconfig.Session, opts deviceconfig.ApplyOptions) (deviceconfig.Result, error) {
				return s.EnsureVlan(ctx, v, opts)
			},
		})
	}

	if state.LEDs != nil {
		desired := reconcile.LedState{Enabled: *state.LEDs}
		steps = append(steps, applyStep{
			name: "LEDs " + onOff(desired.Enabled),
			kind: stepOther,
			apply: func(ctx context.Context, s *deviceconfig.Session, opts deviceconfig.ApplyOptions) (deviceconfig.Result, error) {
				return s.EnsureLEDs(ctx, desired, opts)
			},
		})
	}

	if state.PoePorts != nil {
		desired := reconcile.PoeState{EnabledPorts: *state.PoePorts}
		steps = append(steps, applyStep{
			name: "PoE ports " + desired.EnabledPorts.String(),
			kind: stepOther,
			apply: func(ctx context.Context, s *deviceconfig.Session, opts deviceconfig.ApplyOptions) (deviceconfig.Result, error) {
				return s.EnsurePoe(ctx, desired, opts)
			},
		})
	}

	return steps, nil
}

// runSteps applies every step, continuing past failures. In check mode,
// VLAN steps are skipped when 802.1Q mode would first have to be enabled,
// since the VLAN pages cannot be read before that.
func runSteps(ctx context.Context, s *deviceconfig.Session, steps []applyStep, opts deviceconfig.ApplyOptions, onStep ui.StepCallback) ([]stepResult, error) {
	results := make([]stepResult, 0, len(steps))
	var errs []error
	qvlanPending := false

	for i, st := range steps {
		n := i + 1

		if st.kind == stepVlan && qvlanPending {
			res := deviceconfig.Result{Msg: st.name + " skipped until 802.1Q VLAN mode is enabled"}
			onStep(n, "", ui.StepSkipped, "needs 802.1Q mode")
			results = append(results, stepResult{Step: st.name, Result: res})
			continue
		}

		onStep(n, "", ui.StepRunning, "")
		res, err := st.apply(ctx, s, opts)
		results = append(results, stepResult{Step: st.name, Result: res})

		switch {
		case err != nil:
			errs = append(errs, err)
			onStep(n, "", ui.StepFailed, deviceconfig.GetShortErrorMessage(err))
		case !res.Changed:
			onStep(n, "", ui.StepSkipped, "up to date")
		case opts.Check:
			onStep(n, "", ui.StepComplete, "would change")
		default:
			onStep(n, "", ui.StepComplete, "updated")
		}

		if st.kind == stepQVlan && opts.Check && res.Changed {
			qvlanPending = true
		}
	}
	return results, errors.Join(errs...)
}

// combinedDiff joins the diffs of changed steps into one before/after pair.
func combinedDiff(results []stepResult) (before, after string) {
	var b, a strings.Builder
	for _, r := range results {
		if r.Diff == nil {
			continue
		}
		fmt.Fprintf(&b, "# %s\n%s", r.Step, r.Diff.Before)
		fmt.Fprintf(&a, "# %s\n%s", r.Step, r.Diff.After)
	}
	return b.String(), a.String()
}

// summary counts results for the success box.
func summary(results []stepResult) map[string]string {
	changed := 0
	for _, r := range results {
		if r.Changed {
			changed++
		}
	}
	key := "Changed"
	if checkMode {
		key = "Would change"
	}
	return map[string]string{
		"Settings": fmt.Sprint(len(results)),
		key:        fmt.Sprint(changed),
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}

	state, err := config.LoadState(stateFile)
	if err != nil {
		return err
	}
	steps, err := planSteps(state)
	if err != nil {
		return fmt.Errorf("%s: %w", stateFile, err)
	}

	if state.QVlan != nil && !*state.QVlan && !checkMode && !assumeYes {
		host := switchHost
		if host == "" {
			host = "the switch"
		}
		if !ui.ConfirmDisableQVlan(cmd.InOrStdin(), cmd.ErrOrStderr(), host) {
			return errReported
		}
	}

	opts := applyOptions()
	names := make([]string, len(steps))
	for i, st := range steps {
		names[i] = st.name
	}

	var results []stepResult
	session := func(onStep ui.StepCallback) (map[string]string, error) {
		err := withSwitch(cmd, func(ctx context.Context, t *target, s *deviceconfig.Session) error {
			var runErr error
			results, runErr = runSteps(ctx, s, steps, opts, onStep)
			return runErr
		})
		return summary(results), err
	}

	if outputFormat != "text" {
		_, err := session(func(int, string, ui.StepStatus, string) {})
		if len(results) == 0 && err != nil {
			return err
		}
		if emitErr := emit(cmd.OutOrStdout(), results, ""); emitErr != nil {
			return emitErr
		}
		if err != nil {
			return errReported
		}
		return nil
	}

	params := map[string]string{"File": stateFile}
	if switchHost != "" {
		params["Switch"] = switchHost
	}
	if checkMode {
		params["Mode"] = "check"
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "Apply State",
		Command:   "essctl apply -f " + stateFile,
		Params:    params,
		StepNames: names,
		Output:    cmd.OutOrStdout(),
		Hints:     hintLines,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = runner.RunWithResult(ctx, func(onStep ui.StepCallback) (map[string]string, error) {
		details, err := session(onStep)
		runner.SetDiff(combinedDiff(results))
		return details, err
	})
	if err != nil {
		return errReported
	}
	return nil
}
