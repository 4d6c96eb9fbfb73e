// Package main is the production entry point for the TuneDeck music player.
//
// TuneDeck plays local audio files and draws a live frequency spectrum:
// - Event-driven communication between services and the UI
// - Dependency injection for testability
// - MVP pattern for UI decoupling
// - Repository pattern for favorites, theme and queue persistence
//
// Configuration is read from $XDG_CONFIG_HOME/tunedeck/config.yaml or
// ~/.config/tunedeck/config.yaml when present.
//
// Build:
//
//	go build -o build/tunedeck ./cmd
//
// Run:
//
//	./build/tunedeck
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tejashwikalptaru/tunedeck/internal/app"
)

func main() {
	config := app.DefaultConfig()

	// A broken config file is reported but never fatal
	path, err := config.TryLoadConfig()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Ignoring config: %v\n", err)
	case path != "":
		fmt.Printf("Loaded config from %s\n", path)
	}

	application, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	defer func() {
		fmt.Println("\nShutting down...")
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
		fmt.Println("Shutdown complete")
	}()

	// Blocks until the window is closed
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}
