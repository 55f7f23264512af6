package phone

import "testing"

func TestNormalizeAccepts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"7990127515", "7990127515"},
		{"79-90-12-75-15", "7990127515"},
		{"(799) 012 7515", "7990127515"},
		{"6000000000", "6000000000"},
		{"9999999999", "9999999999"},
		{"  8123456789  ", "8123456789"},
	}
	for _, tc := range cases {
		got, ok := Normalize(tc.in)
		if !ok {
			t.Errorf("Normalize(%q) rejected, want %q", tc.in, tc.want)
			continue
		}
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []string{
		"",
		"123",
		"abcdefghij",
		"5990127515",  // first digit below 6
		"0990127515",  // leading zero
		"799012751",   // 9 digits
		"79901275155", // 11 digits
		"+917990127515",
		"no digits here",
	}
	for _, in := range cases {
		if got, ok := Normalize(in); ok {
			t.Errorf("Normalize(%q) = %q, want rejection", in, got)
		}
	}
}

// A normalized number fed back in must normalize to itself.
func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"7990127515", " 8-1 2.3x4y5z6789 "} {
		first, ok := Normalize(in)
		if !ok {
			t.Fatalf("Normalize(%q) rejected", in)
		}
		second, ok := Normalize(first)
		if !ok || second != first {
			t.Errorf("Normalize(%q) = %q, %v; want %q, true", first, second, ok, first)
		}
	}
}
