// Package main provides the entry point for the site_analyzer CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory at startup when present.
const dotEnvFile = ".env"

func main() {
	if err := loadDotEnv(dotEnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		// Analysis failures have already been reported as a JSON envelope on stdout.
		if !errors.Is(err, errAnalysisFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// loadDotEnv adds the variables in path to the environment without overriding
// ones already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
