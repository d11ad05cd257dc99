package domain

import (
	"reflect"
	"testing"
)

func TestBaseMonthAndIndex(t *testing.T) {
	if got := BaseMonth("Julio (2)"); got != "Julio" {
		t.Fatalf("BaseMonth = %q", got)
	}
	if got := BaseMonth("Enero"); got != "Enero" {
		t.Fatalf("BaseMonth = %q", got)
	}
	if MonthIndex("Marzo (3)") != 2 {
		t.Fatalf("MonthIndex(Marzo (3)) = %d", MonthIndex("Marzo (3)"))
	}
	if MonthIndex("Extra") != 99 {
		t.Fatalf("non-canonical months must sort last")
	}
}

func TestSortMonths_CanonicalThenLexical(t *testing.T) {
	in := []string{"Zeta", "Febrero", "Enero (2)", "Diciembre", "Alfa", "Enero", "Enero (10)"}
	SortMonths(in)
	want := []string{"Enero", "Enero (10)", "Enero (2)", "Febrero", "Diciembre", "Alfa", "Zeta"}
	if !reflect.DeepEqual(in, want) {
		t.Fatalf("SortMonths = %v; want %v", in, want)
	}
}

func TestSortPeriods(t *testing.T) {
	ps := []Period{{Month: "Marzo"}, {Month: "Enero (1)"}, {Month: "Enero"}}
	SortPeriods(ps)
	if ps[0].Month != "Enero" || ps[1].Month != "Enero (1)" || ps[2].Month != "Marzo" {
		t.Fatalf("unexpected order: %+v", ps)
	}
}

func TestParseVariantNumber(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want bool
	}{
		{"Enero (2)", 2, true},
		{"Enero (x)", 0, false},
		{"Enero", 0, false},
		{"Enero )", 0, false},
		{"Enero (12)", 12, true},
	}
	for _, tc := range tests {
		n, ok := ParseVariantNumber(tc.in)
		if ok != tc.want || n != tc.n {
			t.Fatalf("ParseVariantNumber(%q) = (%d,%v); want (%d,%v)", tc.in, n, ok, tc.n, tc.want)
		}
	}
}

func TestNextVariant(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		existing []string
		want     string
	}{
		{"bare canonical counts as one", "Enero", []string{"Enero"}, "Enero (2)"},
		{"bare and explicit one", "Enero", []string{"Enero", "Enero (1)"}, "Enero (2)"},
		{"gap keeps max", "Enero", []string{"Enero", "Enero (5)"}, "Enero (6)"},
		{"nothing live", "Enero", nil, "Enero (1)"},
		{"non canonical bare ignored", "Extra", []string{"Extra"}, "Extra (1)"},
		{"unparseable suffix ignored", "Mayo", []string{"Mayo", "Mayo (x)"}, "Mayo (2)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextVariant(tc.base, tc.existing); got != tc.want {
				t.Fatalf("NextVariant(%q, %v) = %q; want %q", tc.base, tc.existing, got, tc.want)
			}
		})
	}
}

func TestNormalizeMonth(t *testing.T) {
	tests := map[string]string{
		"  enero ":  "Enero",
		"MARZO":     "Marzo",
		"julio (2)": "Julio (2)",
		"ENERO (3)": "Enero (3)",
		"campaña":   "campaña",
		" Mayoral ": "Mayoral",
		"":          "",
	}
	for in, want := range tests {
		if got := NormalizeMonth(in); got != want {
			t.Fatalf("NormalizeMonth(%q) = %q; want %q", in, got, want)
		}
	}
}
