package money

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"5000", 500000},
		{"149.9", 14990},
		{"0.01", 1},
		{" 12.50 ", 1250},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsSubMinorPrecision(t *testing.T) {
	if _, err := Parse("1.005"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := Parse("abc"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for garbage, got %v", err)
	}
}

func TestParseRejectsOverflow(t *testing.T) {
	for _, in := range []string{
		"100000000000000000000",
		"1e30",
		"92233720368547758.08",
		"-92233720368547758.09",
	} {
		if got, err := Parse(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Parse(%q) = %d, %v; want ErrInvalidAmount", in, got, err)
		}
	}

	got, err := Parse("92233720368547758.07")
	if err != nil || got != Amount(math.MaxInt64) {
		t.Fatalf("largest amount = %d, %v", got, err)
	}

	var body struct {
		A Amount `json:"a"`
	}
	if err := json.Unmarshal([]byte(`{"a": 1e30}`), &body); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("unmarshal overflow: %v", err)
	}
}

func TestJSONAcceptsNumbersAndStrings(t *testing.T) {
	var body struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 250.75, "b": "100"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.A != 25075 || body.B != 10000 {
		t.Fatalf("unexpected amounts %d %d", body.A, body.B)
	}

	out, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":250.75,"b":100.00}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestScan(t *testing.T) {
	var a Amount
	if err := a.Scan(int64(4200)); err != nil || a != 4200 {
		t.Fatalf("scan int64: %v %d", err, a)
	}
	if err := a.Scan([]byte("35000")); err != nil || a != 35000 {
		t.Fatalf("scan bytes: %v %d", err, a)
	}
	if err := a.Scan("100000000000000000000"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("scan overflow: %v", err)
	}
}
