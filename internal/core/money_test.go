package core

import (
	"encoding/json"
	"testing"
)

func TestParseCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"+4", 400, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.٣", 0, false},  // arabic-indic three
		{"١.50", 0, false}, // arabic-indic one
		{"1.2٣", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := parseCents(tc.in)
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

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{`1250.5`, 125050},
		{`"99.99"`, 9999},
		{`0`, 0},
		{`-3`, -300},
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if m.Cents != tc.out {
			t.Fatalf("%s expected %d, got %d", tc.in, tc.out, m.Cents)
		}
	}

	out, err := json.Marshal(Money{Cents: 125005})
	if err != nil || string(out) != "1250.05" {
		t.Fatalf("unexpected json %s (err=%v)", out, err)
	}
	out, _ = json.Marshal(Money{Cents: -7})
	if string(out) != "-0.07" {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestMoneyJSONRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"ten"`, `"1.٣"`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err == nil {
			t.Fatalf("%s: expected error, got %d cents", in, m.Cents)
		}
	}
}
