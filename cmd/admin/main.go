package main

import (
	"log"

	"sandyadmin/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("Admin client failed: %v", err)
	}
}
