package timecode

import (
	"math"
	"testing"
)

func TestParseForms(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:00:00", 0},
		{"00:01:30", 90},
		{"01:02:03", 3723},
		{"00:01:30.500", 90.5},
		{"02:15", 135},
		{"02:15.250", 135.25},
		{"93.5", 93.5},
		{"0", 0},
		{" 12 ", 12},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "1:2:3:4", "aa:bb:cc", "00:61:00", "00:00:75", "-5", "00:-1:00"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q): expected error", in)
		}
	}
}

func TestFormatRoundTrips(t *testing.T) {
	for _, seconds := range []float64{0, 1.5, 90.25, 3723.999} {
		formatted := Format(seconds)
		parsed, err := Parse(formatted)
		if err != nil {
			t.Fatalf("Parse(Format(%v)) = %q: %v", seconds, formatted, err)
		}
		if math.Abs(parsed-seconds) > 0.0015 {
			t.Fatalf("round trip %v -> %q -> %v", seconds, formatted, parsed)
		}
	}
	if got := Format(90.5); got != "00:01:30.500" {
		t.Fatalf("unexpected formatting: %q", got)
	}
}
