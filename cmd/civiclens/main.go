package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/participax/civiclens/internal/cli"
)

func main() {
	// A .env file is optional; API keys usually arrive through the real
	// environment.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
