package main

import (
	"github.com/joho/godotenv"

	"swissvote/internal/cli"
)

func main() {
	// API keys for the embedder and the Apertus client may live in a
	// local .env file. A missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
