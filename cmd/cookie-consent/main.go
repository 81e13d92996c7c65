package main

import (
	"log"

	"github.com/mathswe/cookie-consent/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ cookie-consent failed: %v", err)
	}
}
