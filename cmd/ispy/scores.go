package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bee-mcc/ispy/pkg/leaderboard"
)

const scoreNameWidth = 20

var scoresReset bool

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	firstStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().BoolVar(&scoresReset, "reset", false, "delete all saved scores")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(settings)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if scoresReset {
		if err := st.Save(ctx, nil); err != nil {
			return fmt.Errorf("failed to reset scores: %w", err)
		}
		logErrf("Leaderboard cleared\n")
		return nil
	}

	entries, err := leaderboard.New(st, settings.MaxScores).Scores(ctx)
	if err != nil {
		return err
	}
	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), renderScores(entries, styled)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func scoreRow(rank, name, t, acc, date string) string {
	name = runewidth.FillRight(runewidth.Truncate(name, scoreNameWidth, "…"), scoreNameWidth)
	return fmt.Sprintf("%3s  %s  %9s  %4s  %s", rank, name, t, acc, date)
}

// renderScores formats the leaderboard as a table. Without styling the
// output is plain text suitable for pipes.
func renderScores(entries []leaderboard.Entry, styled bool) string {
	if len(entries) == 0 {
		return "No scores yet"
	}

	render := func(st lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return st.Render(s)
	}

	lines := []string{
		render(titleStyle, "LEADERBOARD"),
		render(headerStyle, scoreRow("#", "Name", "Time", "Acc.", "Date")),
	}
	for i, e := range entries {
		st := rowStyle
		if i == 0 {
			st = firstStyle
		}
		lines = append(lines, render(st, scoreRow(
			fmt.Sprint(i+1),
			e.Name,
			leaderboard.FormatMillis(e.TimeMs),
			fmt.Sprintf("%d%%", e.Accuracy),
			e.Date.Local().Format("2006-01-02"),
		)))
	}

	out := strings.Join(lines, "\n")
	if styled {
		out = boxStyle.Render(out)
	}
	return out
}
