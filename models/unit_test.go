package models_test

import (
	"testing"

	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/shopspring/decimal"
)

func TestUnitFactor_RegisteredPairs(t *testing.T) {
	cases := []struct {
		from     string
		to       string
		expected string
	}{
		{"g", "kg", "1000"},
		{"kg", "g", "0.001"},
		{"ml", "l", "1000"},
		{"mg", "g", "1000"},
		{"cc", "ml", "1"},
		{"kg", "t", "1000"},
	}
	for _, tc := range cases {
		f, ok := models.UnitFactor(tc.from, tc.to)
		if !ok {
			t.Fatalf("UnitFactor(%q, %q) expected a factor, got none", tc.from, tc.to)
		}
		if !f.Equal(decimal.RequireFromString(tc.expected)) {
			t.Fatalf("UnitFactor(%q, %q) expected %s, got %s", tc.from, tc.to, tc.expected, f.String())
		}
	}
}

func TestUnitFactor_Identity(t *testing.T) {
	f, ok := models.UnitFactor("振り", "振り")
	if !ok || !f.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("identity factor expected 1, got %s (ok=%v)", f.String(), ok)
	}
}

func TestUnitFactor_UnknownPair(t *testing.T) {
	if _, ok := models.UnitFactor("g", "l"); ok {
		t.Fatalf("UnitFactor(g, l) expected not found")
	}
}

// For every registered pair the forward and reverse factors must cancel out.
func TestUnitFactor_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"g", "kg"}, {"mg", "g"}, {"ml", "l"}, {"cc", "ml"}, {"kg", "t"},
	}
	one := decimal.NewFromInt(1)
	for _, p := range pairs {
		forward, ok := models.UnitFactor(p[0], p[1])
		if !ok {
			t.Fatalf("UnitFactor(%q, %q) not found", p[0], p[1])
		}
		reverse, ok := models.UnitFactor(p[1], p[0])
		if !ok {
			t.Fatalf("UnitFactor(%q, %q) not found", p[1], p[0])
		}
		if !forward.Mul(reverse).Equal(one) {
			t.Fatalf("factor(%q,%q)*factor(%q,%q) expected 1, got %s",
				p[0], p[1], p[1], p[0], forward.Mul(reverse).String())
		}
	}
}
