package domain

import "strings"

// NoPendingVaccine is the token entered when a child has no vaccine due.
const NoPendingVaccine = "NONE"

// legacyNoPendingVaccine is the Spanish token found in older data.
const legacyNoPendingVaccine = "NINGUNA"

// HasPendingVaccine reports whether v names a vaccine still owed. Empty
// values and the "NONE" token do not count.
func HasPendingVaccine(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	return !strings.EqualFold(v, NoPendingVaccine) && !strings.EqualFold(v, legacyNoPendingVaccine)
}

// NoPendingTokens lists the stored values that mean "no pending vaccine",
// for use in SQL NOT IN filters.
func NoPendingTokens() []string {
	return []string{"", NoPendingVaccine, legacyNoPendingVaccine}
}
