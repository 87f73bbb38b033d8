package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmWord is what the user has to type to go ahead.
const ConfirmWord = "yes"

// Confirm displays a warning box on out and reads one line from in.
// It returns true only if the user typed ConfirmWord.
func Confirm(in io.Reader, out io.Writer, title string, warnings []string) bool {
	width := max(GetTerminalWidth(), MinTerminalWidth)

	lines := []string{
		"",
		lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true).
			Render(fmt.Sprintf("   ⚠  WARNING  ─  %s", title)),
		"",
	}
	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	_, _ = fmt.Fprintln(out, box)
	_, _ = fmt.Fprintln(out)

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", ConfirmWord)))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	// A final line without a newline still counts
	if err != nil && (err != io.EOF || input == "") {
		return false
	}

	if strings.TrimSpace(input) == ConfirmWord {
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	return false
}

// ConfirmDisableQVlan asks before turning 802.1Q VLAN mode off.
func ConfirmDisableQVlan(in io.Reader, out io.Writer, host string) bool {
	return Confirm(in, out, "DISABLE 802.1Q VLANS ON "+strings.ToUpper(host), []string{
		"The switch falls back to its default port-based VLAN",
		"Tagged traffic stops being forwarded between VLANs",
		"If you manage the switch over a tagged VLAN you may lose access to it",
	})
}
