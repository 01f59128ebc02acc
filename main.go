package main

import (
	"os"

	"github.com/ilearnhow/lessonsynth/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
