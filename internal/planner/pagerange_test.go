package planner

import "testing"

func TestParsePageRange(t *testing.T) {
	cases := []struct {
		text  string
		start int
		end   int
		ok    bool
	}{
		{"12-34", 12, 34, true},
		{"7", 7, 7, true},
		{" 3 - 9 ", 3, 9, true},
		{"34-12", 12, 34, true}, // normalised
		{"", 0, 0, false},
		{"abc", 0, 0, false},
		{"0-5", 0, 0, false},
		{"12-34-56", 0, 0, false},
	}

	for _, tc := range cases {
		got, ok := ParsePageRange(tc.text)
		if ok != tc.ok {
			t.Errorf("ParsePageRange(%q): ok=%v, want %v", tc.text, ok, tc.ok)
			continue
		}
		if ok && (got.Start != tc.start || got.End != tc.end) {
			t.Errorf("ParsePageRange(%q) = %d-%d, want %d-%d", tc.text, got.Start, got.End, tc.start, tc.end)
		}
	}
}
