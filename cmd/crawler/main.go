package main

import (
	"os"

	"listing_crawler/cmd/crawler/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
