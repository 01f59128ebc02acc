package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Manage the persisted lesson cache",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _ := cmd.Flags().GetInt("day")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stored, err := s.LessonRepo().List(cmd.Context(), day)
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		if len(stored) == 0 {
			fmt.Println("No cached lessons.")
			return nil
		}

		fmt.Printf("%-4s  %-48s  %-32s  %s\n", "Day", "Key", "Title", "Created")
		fmt.Println(strings.Repeat("─", 108))
		for _, l := range stored {
			fmt.Printf("%-4d  %-48s  %-32s  %s\n",
				l.LessonID,
				truncate(l.CacheKey, 48),
				truncate(l.Title, 32),
				l.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			)
		}
		fmt.Printf("\n%d lessons\n", len(stored))
		return nil
	},
}

var lessonsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached lessons (all, or one day with --day)",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _ := cmd.Flags().GetInt("day")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var n int64
		if day > 0 {
			n, err = s.LessonRepo().Delete(cmd.Context(), day)
		} else {
			n, err = s.LessonRepo().Clear(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("clear lessons: %w", err)
		}
		fmt.Printf("Deleted %d cached lessons.\n", n)
		return nil
	},
}

func init() {
	lessonsListCmd.Flags().Int("day", 0, "Only lessons for this day")
	lessonsClearCmd.Flags().Int("day", 0, "Only lessons for this day")

	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsClearCmd)
}
