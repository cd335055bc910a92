package main

import (
	"log"
	"os"

	"github.com/avstrong/hotelhub/internal/app"
)

func main() {
	var exitCode int

	if err := app.Run(); err != nil {
		log.Printf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
