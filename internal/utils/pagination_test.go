package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// blank -> default
		{"", 10, 10},
		{"   ", 3, 3},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{" 42 ", 7, 42},
		// invalid -> default
		{"x", 5, 5},
		{"4 2", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ n, lo, hi, want int }{
		{-3, 1, 200, 1},
		{0, 1, 200, 1},
		{50, 1, 200, 50},
		{100000, 1, 200, 200},
	}
	for _, tc := range cases {
		if got := Clamp(tc.n, tc.lo, tc.hi); got != tc.want {
			t.Fatalf("Clamp(%d, %d, %d) = %d; want %d", tc.n, tc.lo, tc.hi, got, tc.want)
		}
	}
}
