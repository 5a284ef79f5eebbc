package utils

import (
	"fmt"
	"math"
	"strconv"
)

// FormatRoundedUnit renders seconds in the largest whole unit: 45s, 12m, 2h.
func FormatRoundedUnit(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%dh", seconds/3600)
	}
	return fmt.Sprintf("%dm", seconds/60)
}

// FormatCountdown renders seconds as MM:SS, or H:MM:SS from one hour up.
// Negative input is shown as zero.
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatMinutes renders a minute value with at most one decimal: "20 min", "20.5 min".
func FormatMinutes(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "-"
	}
	rounded := math.Round(minutes*10) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " min"
}
