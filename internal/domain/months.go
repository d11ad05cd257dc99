package domain

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalMonths is the fixed month ordering used for sorting variants and
// for bootstrapping a new year.
var CanonicalMonths = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// nonCanonicalIndex sorts unknown bases after every canonical month.
const nonCanonicalIndex = 99

// variantSep separates a base month from its duplicate number: "Enero (2)".
const variantSep = " ("

// BaseMonth strips a duplicate suffix: "Julio (2)" -> "Julio".
func BaseMonth(variant string) string {
	if i := strings.Index(variant, variantSep); i >= 0 {
		return variant[:i]
	}
	return variant
}

// IsCanonicalMonth reports whether name is exactly one of CanonicalMonths.
func IsCanonicalMonth(name string) bool {
	for _, m := range CanonicalMonths {
		if m == name {
			return true
		}
	}
	return false
}

// MonthIndex returns the canonical position of the variant's base month, or
// 99 when the base is not a canonical month name.
func MonthIndex(variant string) int {
	base := BaseMonth(variant)
	for i, m := range CanonicalMonths {
		if m == base {
			return i
		}
	}
	return nonCanonicalIndex
}

// LessMonth orders month-variants by canonical index first and by the full
// variant string second.
func LessMonth(a, b string) bool {
	ia, ib := MonthIndex(a), MonthIndex(b)
	if ia != ib {
		return ia < ib
	}
	return a < b
}

// SortMonths sorts variants in place using LessMonth.
func SortMonths(variants []string) {
	sort.SliceStable(variants, func(i, j int) bool { return LessMonth(variants[i], variants[j]) })
}

// SortPeriods sorts periods in place by month-variant using LessMonth.
func SortPeriods(ps []Period) {
	sort.SliceStable(ps, func(i, j int) bool { return LessMonth(ps[i].Month, ps[j].Month) })
}

// ParseVariantNumber extracts N from a variant ending in "(N)". ok is false
// when the variant has no parenthesised suffix or N is not an integer.
func ParseVariantNumber(variant string) (n int, ok bool) {
	if !strings.HasSuffix(variant, ")") {
		return 0, false
	}
	open := strings.LastIndex(variant, "(")
	if open < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(variant[open+1 : len(variant)-1]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// VariantName builds the n-th duplicate name of base.
func VariantName(base string, n int) string {
	return base + variantSep + strconv.Itoa(n) + ")"
}

// NextVariant computes the name for a new duplicate of base given the live
// variants already present for the year. A bare canonical base counts as
// implicit "(1)".
func NextVariant(base string, existing []string) string {
	max := 0
	for _, v := range existing {
		if n, ok := ParseVariantNumber(v); ok {
			if n > max {
				max = n
			}
			continue
		}
		if v == base && IsCanonicalMonth(base) && max < 1 {
			max = 1
		}
	}
	return VariantName(base, max+1)
}

// NormalizeMonth trims whitespace and, when the base is a canonical month
// in any letter case, rewrites it in canonical form: "  enero" and
// "ENERO (2)" become "Enero" and "Enero (2)". Other names are only trimmed.
func NormalizeMonth(variant string) string {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		return ""
	}
	base := BaseMonth(variant)
	// Casers are stateful; build one per call.
	title := cases.Title(language.Spanish).String(strings.ToLower(base))
	if !IsCanonicalMonth(title) {
		return variant
	}
	return title + variant[len(base):]
}
