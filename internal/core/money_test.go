package core

import "testing"

func TestParseDecimalToCentavos(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"50,00", 5000, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCentavos(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseParcelas(t *testing.T) {
	cases := []struct {
		in  string
		out int
		ok  bool
	}{
		{"", 1, true},
		{"1", 1, true},
		{"12", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"x", 0, false},
		{"1.5", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseParcelas(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyReais(t *testing.T) {
	if got := (Money{Centavos: 1234}).Reais(); got != 12.34 {
		t.Fatalf("expected 12.34, got %v", got)
	}
	if got := (Money{Centavos: -3000}).Reais(); got != -30.0 {
		t.Fatalf("expected -30.0, got %v", got)
	}
}
