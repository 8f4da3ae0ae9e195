package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"timeline-cli/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// TIMELINE_* settings may come from a local .env; real env vars win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
