package resolver

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseVideoDuration converts an ISO 8601 duration to seconds.
// Example: "PT4M13S" -> 253 seconds. Live streams report "P0D", which is 0.
func ParseVideoDuration(duration string) (int, error) {
	if !strings.HasPrefix(duration, "P") {
		return 0, fmt.Errorf("invalid duration format: %s", duration)
	}
	duration = strings.TrimPrefix(duration, "P")

	var days int
	if dIdx := strings.Index(duration, "D"); dIdx != -1 {
		d, err := strconv.Atoi(duration[:dIdx])
		if err != nil {
			return 0, fmt.Errorf("invalid duration days: %w", err)
		}
		days = d
		duration = duration[dIdx+1:]
	}

	if duration == "" {
		return days * 86400, nil
	}
	if !strings.HasPrefix(duration, "T") {
		return 0, fmt.Errorf("invalid duration format: %s", duration)
	}
	duration = strings.TrimPrefix(duration, "T")

	var hours, minutes, seconds int

	if hIdx := strings.Index(duration, "H"); hIdx != -1 {
		h, err := strconv.Atoi(duration[:hIdx])
		if err != nil {
			return 0, fmt.Errorf("invalid duration hours: %w", err)
		}
		hours = h
		duration = duration[hIdx+1:]
	}

	if mIdx := strings.Index(duration, "M"); mIdx != -1 {
		m, err := strconv.Atoi(duration[:mIdx])
		if err != nil {
			return 0, fmt.Errorf("invalid duration minutes: %w", err)
		}
		minutes = m
		duration = duration[mIdx+1:]
	}

	if sIdx := strings.Index(duration, "S"); sIdx != -1 {
		s, err := strconv.Atoi(duration[:sIdx])
		if err != nil {
			return 0, fmt.Errorf("invalid duration seconds: %w", err)
		}
		seconds = s
		duration = duration[sIdx+1:]
	}

	if duration != "" {
		return 0, fmt.Errorf("invalid duration format: trailing %q", duration)
	}

	return days*86400 + hours*3600 + minutes*60 + seconds, nil
}
