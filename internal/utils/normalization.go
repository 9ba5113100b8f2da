package utils

import (
	"fmt"
	"strings"
)

func NormalizeDifficulty(difficulty string) string {
	return strings.ToLower(strings.TrimSpace(difficulty))
}

func NormalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// FormatClock renders a seconds count as zero-padded mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
