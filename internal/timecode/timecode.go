// Package timecode parses and formats clip boundary timestamps.
//
// Clip boundaries arrive either as HH:MM:SS[.mmm] strings or as bare
// seconds-float values; both resolve to seconds for ffmpeg arguments.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a clip boundary value into seconds. Accepted forms are
// "HH:MM:SS", "HH:MM:SS.mmm", "MM:SS[.mmm]", and a plain seconds float such
// as "93.5".
func Parse(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("timecode: empty value")
	}

	if !strings.Contains(trimmed, ":") {
		seconds, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("timecode: parse %q: %w", value, err)
		}
		if seconds < 0 {
			return 0, fmt.Errorf("timecode: negative value %q", value)
		}
		return seconds, nil
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("timecode: malformed value %q", value)
	}

	var hours, minutes float64
	var err error
	idx := 0
	if len(parts) == 3 {
		if hours, err = parseComponent(parts[idx], value); err != nil {
			return 0, err
		}
		idx++
	}
	if minutes, err = parseComponent(parts[idx], value); err != nil {
		return 0, err
	}
	idx++
	seconds, err := parseComponent(parts[idx], value)
	if err != nil {
		return 0, err
	}
	if minutes >= 60 || seconds >= 60 {
		return 0, fmt.Errorf("timecode: component out of range in %q", value)
	}
	return hours*3600 + minutes*60 + seconds, nil
}

// Format renders seconds as HH:MM:SS.mmm for ffmpeg arguments and logs.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	millis := int((seconds-float64(whole))*1000 + 0.5)
	if millis >= 1000 {
		whole++
		millis -= 1000
	}
	h := whole / 3600
	m := (whole % 3600) / 60
	s := whole % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, millis)
}

func parseComponent(component, original string) (float64, error) {
	val, err := strconv.ParseFloat(strings.TrimSpace(component), 64)
	if err != nil {
		return 0, fmt.Errorf("timecode: parse %q: %w", original, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("timecode: negative component in %q", original)
	}
	return val, nil
}
