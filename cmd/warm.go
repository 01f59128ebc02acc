package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/ilearnhow/lessonsynth/internal/lessons"
	"github.com/ilearnhow/lessonsynth/internal/params"
	"github.com/ilearnhow/lessonsynth/internal/source"
	"github.com/ilearnhow/lessonsynth/internal/ui/theme"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-generate lessons into the cache",
	Long: `Synthesize every combination of the given days, ages, tones and languages
so later requests are served from the cache. Days without a lesson source
are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		daysVal, _ := cmd.Flags().GetString("days")
		ages, _ := cmd.Flags().GetIntSlice("ages")
		tones, _ := cmd.Flags().GetStringSlice("tones")
		languages, _ := cmd.Flags().GetStringSlice("languages")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		days, err := parseDays(daysVal)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		w := lessons.WarmRequest{
			Days:        days,
			Ages:        ages,
			Tones:       tones,
			Languages:   languages,
			Concurrency: concurrency,
		}
		fmt.Printf("Warming %d lessons (%d days × %d ages × %d tones × %d languages)...\n",
			w.Size(), len(days), len(ages), len(tones), len(languages))

		report, err := rt.service.Warm(cmd.Context(), w)
		lipgloss.Println(lipgloss.JoinHorizontal(lipgloss.Top,
			theme.Correct.Render(fmt.Sprintf("%d synthesized", report.Synthesized)), "  ",
			theme.Body.Render(fmt.Sprintf("%d cached", report.Cached)), "  ",
			theme.Hint.Render(fmt.Sprintf("%d skipped", report.Skipped)),
		))
		return err
	},
}

func init() {
	warmCmd.Flags().String("days", "1-7", "Days to warm, e.g. 1-31,60,100-110")
	warmCmd.Flags().IntSlice("ages", []int{4, 10, 20, 40, 70}, "Learner ages")
	tones := make([]string, 0, len(params.Tones))
	for _, t := range params.Tones {
		tones = append(tones, string(t))
	}
	warmCmd.Flags().StringSlice("tones", tones, "Tones")
	warmCmd.Flags().StringSlice("languages", []string{string(params.English)}, "Languages")
	warmCmd.Flags().Int("concurrency", lessons.DefaultWarmConcurrency, "Parallel syntheses")
}

// parseDays expands a list like "1-3,10" into day numbers, in order and
// without duplicates.
func parseDays(s string) ([]int, error) {
	var days []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if i := strings.Index(part, "-"); i > 0 {
			lo, hi = part[:i], part[i+1:]
		}
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid day %q", part)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid day %q", part)
		}
		if from < 1 || to > source.MaxDay || from > to {
			return nil, fmt.Errorf("invalid day range %q: days are 1-%d", part, source.MaxDay)
		}
		for d := from; d <= to; d++ {
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no days given")
	}
	return days, nil
}
