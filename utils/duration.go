package utils

import (
	"fmt"
	"strconv"
	"strings"

	"studyhub/apperr"
)

// ParseDurationSeconds turns a duration-like input into whole seconds.
// Accepts a plain integer ("300") with an optional trailing "s" ("300s").
// Anything else is a validation error, never a silent zero.
func ParseDurationSeconds(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(trimmed, "s")
	if trimmed == "" {
		return 0, apperr.Validation("duration is required")
	}
	seconds, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, apperr.Validationf("invalid duration %q", raw)
	}
	if seconds < 0 {
		return 0, apperr.Validationf("duration must not be negative, got %d", seconds)
	}
	return seconds, nil
}

// FormatDuration renders total seconds for display: "2h 5m", "10m 0s" or "45s".
// The integer seconds total stays the canonical value for arithmetic.
func FormatDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
