package main

import (
	"os"

	"github.com/us3rdie/yt-to-mp3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
