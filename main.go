package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}
}

func main() {

	// Load .env variables
	LoadEnv()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
