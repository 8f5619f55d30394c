package oddsmath

import (
	"math"
	"testing"
)

func TestAmericanToDecimal(t *testing.T) {
	cases := []struct {
		american int
		want     float64
	}{
		{150, 2.50},
		{-150, 1.0 + 100.0/150.0},
		{100, 2.00},
		{-100, 2.00},
		{-110, 1.0 + 100.0/110.0},
		{250, 3.50},
	}
	for _, c := range cases {
		got, err := AmericanToDecimal(c.american)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d) error: %v", c.american, err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("AmericanToDecimal(%d) got=%f want=%f", c.american, got, c.want)
		}
		if got <= 1.0 {
			t.Fatalf("AmericanToDecimal(%d)=%f must be > 1", c.american, got)
		}
	}
}

func TestAmericanToDecimalAlwaysAboveOne(t *testing.T) {
	// Sweep the valid American range; decimal odds are strictly > 1.
	for o := -10000; o <= 10000; o++ {
		if o == 0 {
			continue
		}
		got, err := AmericanToDecimal(o)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d) error: %v", o, err)
		}
		if got <= 1.0 {
			t.Fatalf("AmericanToDecimal(%d)=%f must be > 1", o, got)
		}
	}
}

func TestAmericanToDecimalZero(t *testing.T) {
	if _, err := AmericanToDecimal(0); err == nil {
		t.Fatal("AmericanToDecimal(0) expected error")
	}
}

func TestDecimalToAmericanRoundTrip(t *testing.T) {
	for _, o := range []int{-300, -150, -110, 100, 120, 250, 900} {
		d, err := AmericanToDecimal(o)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d) error: %v", o, err)
		}
		back, err := DecimalToAmerican(d)
		if err != nil {
			t.Fatalf("DecimalToAmerican(%f) error: %v", d, err)
		}
		if back != o {
			t.Fatalf("round trip %d -> %f -> %d", o, d, back)
		}
	}
}

func TestAmericanToImplied(t *testing.T) {
	p, err := AmericanToImplied(-110)
	if err != nil {
		t.Fatalf("AmericanToImplied error: %v", err)
	}
	// -110 => 110/210 = 0.5238
	if math.Abs(p-110.0/210.0) > 1e-9 {
		t.Fatalf("AmericanToImplied(-110) got=%f want=%f", p, 110.0/210.0)
	}
}
