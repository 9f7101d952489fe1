package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type helpStyles struct {
	title, subtitle, section, command, description, example, separator lipgloss.Style
}

func newHelpStyles(r *lipgloss.Renderer) helpStyles {
	gray := lipgloss.Color("#A9A9A9")
	return helpStyles{
		title:       r.NewStyle().Foreground(lipgloss.Color("#1E5AA8")).Bold(true),
		subtitle:    r.NewStyle().Foreground(gray).Italic(true),
		section:     r.NewStyle().Foreground(lipgloss.Color("#90EE90")).Bold(true),
		command:     r.NewStyle().Foreground(lipgloss.Color("#00FF7F")).Bold(true),
		description: r.NewStyle().Foreground(gray),
		example:     r.NewStyle().Foreground(lipgloss.Color("#5A5A5A")).Italic(true),
		separator:   r.NewStyle().Foreground(lipgloss.Color("#5A5A5A")),
	}
}

// renderHelp replaces cobra's default help with a styled version built from
// the same command metadata.
func renderHelp(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	s := newHelpStyles(lipgloss.NewRenderer(out))
	sep := s.separator.Render(strings.Repeat("─", 60))

	var b strings.Builder
	b.WriteString(s.title.Render(cmd.CommandPath()) + "\n")
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	b.WriteString(s.subtitle.Render(desc) + "\n\n")

	b.WriteString(sep + "\n" + s.section.Render("Usage:") + "\n")
	b.WriteString("  " + s.command.Render(cmd.UseLine()) + "\n")
	if cmd.HasAvailableSubCommands() {
		b.WriteString("  " + s.command.Render(cmd.CommandPath()+" [command]") + "\n")
	}

	if cmd.HasAvailableSubCommands() {
		b.WriteString("\n" + s.section.Render("Commands:") + "\n")
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() || sub.IsAdditionalHelpTopicCommand() {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n", s.command.Render(fmt.Sprintf("%-10s", sub.Name())), s.description.Render(sub.Short))
		}
	}

	if cmd.HasAvailableLocalFlags() {
		b.WriteString("\n" + s.section.Render("Options:") + "\n")
		b.WriteString(s.description.Render(strings.TrimRight(cmd.LocalFlags().FlagUsages(), "\n")) + "\n")
	}
	if cmd.HasAvailableInheritedFlags() {
		b.WriteString("\n" + s.section.Render("Global options:") + "\n")
		b.WriteString(s.description.Render(strings.TrimRight(cmd.InheritedFlags().FlagUsages(), "\n")) + "\n")
	}

	if cmd.HasExample() {
		b.WriteString("\n" + s.section.Render("Examples:") + "\n")
		b.WriteString(s.example.Render(cmd.Example) + "\n")
	}
	b.WriteString(sep + "\n")

	_, _ = fmt.Fprint(out, b.String())
}
