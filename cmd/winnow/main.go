package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"winnow/internal/triage"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "winnow: %v\n", err)
			if errors.Is(err, triage.ErrInvalidArgument) {
				fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
			}
		}
		os.Exit(1)
	}
}
