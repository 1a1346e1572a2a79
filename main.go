package main

import (
	"os"

	"careercoach/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Credentials and job board keys are commonly provided via a local
	// .env file during development. A missing file is not an error.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
