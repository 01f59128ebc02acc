package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/ilearnhow/lessonsynth/internal/lessons"
	"github.com/ilearnhow/lessonsynth/internal/ui/preview"
	"github.com/ilearnhow/lessonsynth/internal/ui/theme"
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize one lesson",
	Long: `Synthesize the lesson for a day and learner parameters.

Unknown tones, languages and avatars fall back to defaults. The lesson is
cached like any served lesson, so repeating the command is instant.`,
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().Int("day", 0, "Day of the year, 1-366 (required)")
	synthCmd.Flags().Int("age", 25, "Learner age in years")
	synthCmd.Flags().String("tone", "neutral", "Tone: grandmother, fun or neutral")
	synthCmd.Flags().String("language", "english", "Lesson language")
	synthCmd.Flags().String("avatar", "", "Avatar: kelly or ken (default depends on tone)")
	synthCmd.Flags().String("format", "preview", "Output format: preview or json")
	synthCmd.Flags().Int("width", preview.DefaultWidth, "Preview width in columns")
	_ = synthCmd.MarkFlagRequired("day")
}

func runSynth(cmd *cobra.Command, args []string) error {
	day, _ := cmd.Flags().GetInt("day")
	age, _ := cmd.Flags().GetInt("age")
	tone, _ := cmd.Flags().GetString("tone")
	language, _ := cmd.Flags().GetString("language")
	avatar, _ := cmd.Flags().GetString("avatar")
	format, _ := cmd.Flags().GetString("format")
	width, _ := cmd.Flags().GetInt("width")

	if format != "preview" && format != "json" {
		return fmt.Errorf("invalid format %q: must be preview or json", format)
	}

	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	resp, err := rt.service.Lesson(cmd.Context(), lessons.Request{
		Day:      day,
		Age:      age,
		Tone:     tone,
		Language: language,
		Avatar:   avatar,
	})
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	lipgloss.Println(preview.Render(resp.Lesson, width))
	source := "synthesized"
	if resp.FromCache {
		source = "cached"
	}
	lipgloss.Println(theme.Hint.Render(fmt.Sprintf("%s · %s", source, resp.Key)))
	return nil
}
