package main

import (
	"log"

	"github.com/MrSnakeDoc/scout/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ scout failed to start: %v", err)
	}
}
