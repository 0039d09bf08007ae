package slogx

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseLevel accepts slog level names (debug, info, warn, error) with optional offsets like "info+2".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", s, err)
	}

	return level, nil
}
