package parse

import "testing"

func TestSample(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"3.14", 3.14, true},
		{"-7", -7, true},
		{"2e3", 2000, true},
		{"  42  ", 42, true},
		{"0x1A", 26, true},
		{"0X1a", 26, true},
		{"0b101", 5, true},
		{"0B11", 3, true},
		{"value=3.14V", 3.14, true},
		{"temp: -12.5 C", -12.5, true},
		{"rpm 4500", 4500, true},
		{"", 0, false},
		{"not available", 0, false},
		{"Not Available", 0, false},
		{"n/a--", 0, false},
		{"???", 0, false},
		{"0x", 0, true}, // falls through to embedded "0"
	}

	for _, tt := range tests {
		got, ok := Sample(tt.raw)
		if ok != tt.ok {
			t.Errorf("Sample(%q): ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Sample(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSampleHexGarbageFallsToEmbedded(t *testing.T) {
	// "0xZZ" is not valid hex; the embedded scan finds the leading "0".
	got, ok := Sample("0xZZ")
	if !ok || got != 0 {
		t.Fatalf("Sample(0xZZ) = %v, %v; want 0, true", got, ok)
	}
}

func TestSampleDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if v, ok := Sample("load avg 1.25, 0.80"); !ok || v != 1.25 {
			t.Fatalf("run %d: got %v, %v", i, v, ok)
		}
	}
}
