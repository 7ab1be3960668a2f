package model

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"99.00", 99},
		{"123.4500", 123.45},
		{"0.0000", 0},
		{"", 0},
		{"not-a-number", 0},
		{"-5.25", -5.25},
	}

	for _, tt := range tests {
		if got := ParseAmount(tt.input); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRoundAmount(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{19.999999999, 20},
		{0.1 + 0.2, 0.3},
		{-2.005, -2},
	}

	for _, tt := range tests {
		if got := RoundAmount(tt.input); got != tt.want {
			t.Errorf("RoundAmount(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
