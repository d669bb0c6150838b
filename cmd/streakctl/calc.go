package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

type calcOptions struct {
	file    string
	today   string
	tz      string
	asJSON  bool
	nowFunc func() time.Time
}

type calcResult struct {
	Today string `json:"today"`
	streak.Stats
}

func newCalcCmd() *cobra.Command {
	opts := &calcOptions{nowFunc: time.Now}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute current and longest streak from a history file",
		Long: `Reads a JSON array of {"date": "...", "completed": true|false} objects from --file
(or stdin when the file is "-" or omitted) and prints the current and longest streak.`,
		Example: `  streakctl calc --file history.json
  streakctl calc --file history.json --today 2024-06-10 --tz Europe/Rome --json
  cat history.json | streakctl calc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "history file, - for stdin")
	cmd.Flags().StringVar(&opts.today, "today", "", "reference day (YYYY-MM-DD), defaults to the current date")
	cmd.Flags().StringVar(&opts.tz, "tz", "", "IANA timezone used to turn timestamps into calendar days (default UTC)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")

	return cmd
}

func runCalc(cmd *cobra.Command, opts *calcOptions) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	tz := cfg.Timezone
	if cmd.Flags().Changed("tz") {
		tz = opts.tz
	}
	loc := time.UTC
	if tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return fmt.Errorf("unknown timezone %q: %w", tz, err)
		}
	}

	asJSON := cfg.Format == formatJSON
	if cmd.Flags().Changed("json") {
		asJSON = opts.asJSON
	}

	today := opts.nowFunc().In(loc)
	if opts.today != "" {
		if today, err = streak.ParseDay(opts.today, loc); err != nil {
			return fmt.Errorf("--today: %w", err)
		}
	}

	raw, err := readHistory(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}

	stats, err := streak.ComputeRaw(raw, today, loc)
	if err != nil {
		return err
	}

	result := calcResult{Today: today.Format("2006-01-02"), Stats: stats}
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printStats(out, result)
	return nil
}

func readHistory(stdin io.Reader, file string) ([]streak.RawEntry, error) {
	r := stdin
	name := "stdin"
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		defer f.Close()
		r, name = f, file
	}

	var raw []streak.RawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding %s: expected a JSON array of {date, completed}: %w", name, err)
	}
	return raw, nil
}

func printStats(w io.Writer, r calcResult) {
	if !isTerminal(w) {
		fmt.Fprintf(w, "today:          %s\n", r.Today)
		fmt.Fprintf(w, "current streak: %d\n", r.Current)
		fmt.Fprintf(w, "longest streak: %d\n", r.Longest)
		return
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Streaks as of "+r.Today),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("current streak"), currentVal.Render(fmt.Sprint(r.Current))),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("longest streak"), longestVal.Render(fmt.Sprint(r.Longest))),
	)
	fmt.Fprintln(w, body)
}
