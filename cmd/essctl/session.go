package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/essctl/essctl/internal/config"
	"github.com/essctl/essctl/internal/deviceconfig"
	"github.com/essctl/essctl/internal/logging"
	"github.com/essctl/essctl/internal/ui"
)

// PasswordEnvVar holds the switch password when --password is not given.
const PasswordEnvVar = "ESSCTL_PASSWORD"

// Connection and output flags shared by every command
var (
	switchHost   string
	username     string
	password     string
	timeoutSecs  int
	outputFormat string
	logLevel     string
	checkMode    bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&switchHost, "host", "", "Switch address or saved nickname (default: the only saved switch)")
	pf.StringVarP(&username, "username", "u", "", "Login name (default: saved or admin)")
	pf.StringVar(&password, "password", "", "Login password (default: $"+PasswordEnvVar+" or prompt)")
	pf.IntVar(&timeoutSecs, "timeout", 0, "HTTP timeout in seconds (default: from config, 5)")
	pf.StringVar(&outputFormat, "format", "text", "Output format (text, yaml, json)")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides $"+logging.LogLevelEnvVar)
	pf.BoolVar(&checkMode, "check", false, "Show what would change without writing anything")
}

// target is a resolved switch to talk to.
type target struct {
	name     string // registry nickname, empty for ad-hoc hosts
	host     string
	entry    *config.Switch
	registry *config.Registry
}

// resolveTarget maps --host (or its absence) to a switch address.
func resolveTarget(reg *config.Registry, hostFlag string) (*target, error) {
	if hostFlag == "" {
		names := reg.Names()
		switch len(names) {
		case 0:
			return nil, errors.New("no switch given: use --host, or save one with 'essctl scan --save'")
		case 1:
			hostFlag = names[0]
		default:
			return nil, fmt.Errorf("several switches saved (%s): choose one with --host", strings.Join(names, ", "))
		}
	}

	host, entry := reg.Resolve(hostFlag)
	t := &target{host: host, entry: entry, registry: reg}
	if entry != nil {
		t.name = hostFlag
	}
	return t, nil
}

// loadRegistry loads the registry, falling back to an empty one so that a
// broken config file never blocks --host use.
func loadRegistry() *config.Registry {
	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Ignoring config file", zap.Error(err))
		return config.NewRegistry()
	}
	return reg
}

// resolveUsername picks the login name: flag, saved entry, preference.
func (t *target) resolveUsername(flag string) string {
	if flag != "" {
		return flag
	}
	if t.entry != nil && t.entry.Username != "" {
		return t.entry.Username
	}
	if t.registry.Preferences != nil && t.registry.Preferences.DefaultUsername != "" {
		return t.registry.Preferences.DefaultUsername
	}
	return deviceconfig.DefaultUsername
}

func (t *target) timeout(flag int) time.Duration {
	if flag > 0 {
		return time.Duration(flag) * time.Second
	}
	if t.registry.Preferences != nil && t.registry.Preferences.RequestTimeout > 0 {
		return time.Duration(t.registry.Preferences.RequestTimeout) * time.Second
	}
	return deviceconfig.DefaultTimeout
}

// label is how the switch is named in output.
func (t *target) label() string {
	if t.name != "" {
		return fmt.Sprintf("%s (%s)", t.name, t.host)
	}
	return t.host
}

// resolvePassword reads the password from the flag, the environment, or a
// no-echo prompt when stdin is a terminal.
func resolvePassword(flag string, stdin *os.File, prompt io.Writer, user, host string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env, ok := os.LookupEnv(PasswordEnvVar); ok {
		return env, nil
	}
	if !ui.IsTerminal(stdin) {
		return "", fmt.Errorf("no password: use --password or set %s", PasswordEnvVar)
	}

	fmt.Fprintf(prompt, "Password for %s@%s: ", user, host)
	raw, err := term.ReadPassword(int(stdin.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// withSwitch resolves the target, logs in, and runs fn inside a session.
// A saved switch has its last-seen time refreshed after a clean run.
func withSwitch(cmd *cobra.Command, fn func(ctx context.Context, t *target, s *deviceconfig.Session) error) error {
	t, err := resolveTarget(loadRegistry(), switchHost)
	if err != nil {
		return err
	}

	user := t.resolveUsername(username)
	pass, err := resolvePassword(password, os.Stdin, cmd.ErrOrStderr(), user, t.host)
	if err != nil {
		return err
	}

	client := deviceconfig.NewClient(t.host)
	client.SetAuth(user, pass)
	client.SetTimeout(t.timeout(timeoutSecs))

	logging.Debug("Connecting",
		zap.String("host", t.host),
		zap.String("user", user),
		zap.Bool("check", checkMode))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = client.WithSession(ctx, func(s *deviceconfig.Session) error {
		return fn(ctx, t, s)
	})

	if t.name != "" && err == nil {
		t.registry.UpdateSwitchSeen(t.name, t.host)
		if saveErr := t.registry.Save(); saveErr != nil {
			logging.Warn("Failed to update config file", zap.Error(saveErr))
		}
	}
	return err
}

// validateFormat rejects unknown --format values before any I/O.
func validateFormat() error {
	switch outputFormat {
	case "text", "yaml", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, yaml or json)", outputFormat)
}

// emit prints v as YAML or JSON, or the text rendering in text mode.
func emit(w io.Writer, v any, text string) error {
	switch outputFormat {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		_, err := fmt.Fprintln(w, strings.TrimRight(text, "\n"))
		return err
	}
}

// hintLines turns a troubleshooting hint into box items.
func hintLines(err error) []string {
	var lines []string
	for _, line := range strings.Split(deviceconfig.GetTroubleshootingHint(err), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// resultBox builds the text rendering of an ensure result.
func resultBox(t *target, res deviceconfig.Result, err error) *ui.Result {
	var r *ui.Result
	switch {
	case res.Failed || err != nil:
		if err == nil {
			err = errors.New(res.Msg)
		}
		r = ui.NewFailureResult(res.Msg, err, hintLines(err))
		r.Error = errors.New(deviceconfig.GetShortErrorMessage(err))
	case res.Changed && checkMode:
		r = ui.NewWarningResult(res.Msg, nil)
	default:
		r = ui.NewSuccessResult(res.Msg, nil)
	}

	if t != nil {
		r.AddDetail("Switch", t.label())
	}
	if checkMode {
		r.AddDetail("Mode", "check")
	}
	if res.Diff != nil {
		r.SetDiff(res.Diff.Before, res.Diff.After)
	}
	return r
}

// report prints one ensure result and turns failure into errReported.
func report(w io.Writer, t *target, res deviceconfig.Result, err error) error {
	if res.Msg == "" && err != nil {
		res.Failed = true
		res.Msg = err.Error()
	}

	if outputFormat == "text" {
		ui.NewPrinter(w).PrintResult(resultBox(t, res, err))
	} else if emitErr := emit(w, res, ""); emitErr != nil {
		return emitErr
	}

	if res.Failed || err != nil {
		return errReported
	}
	return nil
}

// runEnsure runs one ensure operation in a session and reports its result.
// Failures before the operation starts, such as a refused login, are
// reported the same way.
func runEnsure(cmd *cobra.Command, ensure func(ctx context.Context, s *deviceconfig.Session) (deviceconfig.Result, error)) error {
	if err := validateFormat(); err != nil {
		return err
	}

	var (
		tgt    *target
		res    deviceconfig.Result
		ensErr error
	)
	err := withSwitch(cmd, func(ctx context.Context, t *target, s *deviceconfig.Session) error {
		tgt = t
		res, ensErr = ensure(ctx, s)
		return ensErr
	})
	if err != nil && ensErr == nil {
		res = deviceconfig.Result{Failed: true, Msg: err.Error()}
		ensErr = err
	}
	return report(cmd.OutOrStdout(), tgt, res, ensErr)
}

// applyOptions returns the options shared by all ensure commands.
func applyOptions() deviceconfig.ApplyOptions {
	return deviceconfig.ApplyOptions{Check: checkMode}
}
