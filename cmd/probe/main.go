package main

import (
	"fmt"
	"log"
	"time"

	"github.com/eyebreak/eyebreak/pkg/detector"
)

func main() {
	fmt.Println("Testing screen lock and fullscreen detection")
	fmt.Println("============================================")

	det, err := detector.New()
	if err != nil {
		log.Fatalf("Failed to create detector: %v", err)
	}
	defer det.Close()

	fmt.Printf("\nSession type: %s\n", detector.DetectDisplayServer())
	fmt.Printf("Display Server: %s\n", det.GetDisplayServer())
	fmt.Printf("Is Available: %v\n\n", det.IsAvailable())
	if s, ok := det.(interface{ GetStatus() string }); ok {
		fmt.Println(s.GetStatus())
	}

	fmt.Println("Probing for 30 seconds...")
	fmt.Println("Toggle fullscreen or lock the screen to test detection")
	fmt.Println()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	timeout := time.After(30 * time.Second)
	count := 0

	for {
		select {
		case <-timeout:
			fmt.Println("\nProbe completed!")
			return

		case <-ticker.C:
			count++
			locked, lockErr := det.IsScreenLocked()
			fullscreen, fsErr := det.IsForegroundFullscreen()

			fmt.Printf("[%d] Locked: %-13s | Fullscreen: %s\n",
				count,
				describe(locked, lockErr),
				describe(fullscreen, fsErr),
			)
		}
	}
}

func describe(v bool, err error) string {
	if err != nil {
		return "unknown (" + truncate(err.Error(), 40) + ")"
	}
	return fmt.Sprintf("%v", v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
