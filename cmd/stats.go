package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilearnhow/lessonsynth/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lesson synthesis statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetDuration("since")
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		var from time.Time
		window := "all time"
		if since > 0 {
			from = time.Now().Add(-since)
			window = "last " + since.String()
		}

		sum, err := s.EventRepo().SynthesisSummary(ctx, from)
		if err != nil {
			return fmt.Errorf("query summary: %w", err)
		}
		if sum.Requests == 0 {
			fmt.Println("No lesson requests recorded yet.")
			return nil
		}

		fmt.Printf("Lesson Requests (%s)\n", window)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-16s  %8d\n", "Requests", sum.Requests)
		fmt.Printf("%-16s  %8d  %5.1f%%\n", "Cache hits", sum.CacheHits, percent(sum.CacheHits, sum.Requests))
		fmt.Printf("%-16s  %8d  %5.1f%%\n", "Fallbacks", sum.Fallbacks, percent(sum.Fallbacks, sum.Requests))
		fmt.Printf("%-16s  %8d\n", "Not found", sum.Failures)
		fmt.Printf("%-16s  %8d\n", "Avg latency ms", sum.AvgLatencyMs)

		if limit <= 0 {
			return nil
		}
		events, err := s.EventRepo().QuerySynthesisEvents(ctx, store.QueryOpts{From: from, Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		fmt.Println()
		fmt.Printf("%-19s  %-4s  %-44s  %-9s  %-6s  %s\n",
			"Timestamp", "Day", "Key", "Generator", "Cache", "Ms")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range events {
			cache := "miss"
			if e.FromCache {
				cache = "hit"
			}
			gen := e.Generator
			if e.UsedFallback {
				gen += "*"
			}
			if e.ErrorMessage != "" {
				gen, cache = "-", "-"
			}
			fmt.Printf("%-19s  %-4d  %-44s  %-9s  %-6s  %d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.LessonID,
				truncate(e.CacheKey, 44),
				gen,
				cache,
				e.LatencyMs,
			)
		}
		return nil
	},
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func init() {
	statsCmd.Flags().Duration("since", 24*time.Hour, "Time window (0 for all time)")
	statsCmd.Flags().IntP("limit", "n", 10, "Recent requests to list")
}
