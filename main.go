package main

import (
	"os"

	"storyreel/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; deployments may set the environment directly.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
