package util

import "testing"

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		value  float64
		places int32
		want   string
	}{
		{0, 2, "0.00"},
		{12.5, 2, "12.50"},
		{999, 0, "999"},
		{1000, 0, "1,000"},
		{1234567.891, 2, "1,234,567.89"},
		{-98765.4, 1, "-98,765.4"},
		{-0.001, 2, "0.00"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.value, tc.places); got != tc.want {
			t.Errorf("FormatNumber(%v, %d) = %q, want %q", tc.value, tc.places, got, tc.want)
		}
	}
}

func TestFormatOptional(t *testing.T) {
	if got := FormatOptional(nil, 2); got != "-" {
		t.Fatalf("FormatOptional(nil) = %q", got)
	}
	v := 2500.0
	if got := FormatOptional(&v, 0); got != "2,500" {
		t.Fatalf("FormatOptional(2500) = %q", got)
	}
	if got := FormatCount(1200300); got != "1,200,300" {
		t.Fatalf("FormatCount = %q", got)
	}
}

func TestParseOptionalFloat(t *testing.T) {
	v, err := ParseOptionalFloat("  ")
	if err != nil || v != nil {
		t.Fatalf("blank = %v, %v", v, err)
	}
	v, err = ParseOptionalFloat("20.5")
	if err != nil || v == nil || *v != 20.5 {
		t.Fatalf("20.5 = %v, %v", v, err)
	}
	if _, err := ParseOptionalFloat("abc"); err == nil {
		t.Fatalf("expected error")
	}
}
