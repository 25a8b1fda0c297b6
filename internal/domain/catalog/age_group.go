package catalog

import (
	"slices"
	"strings"

	"github.com/touchline/backend/internal/domain/shared"
)

// AgeGroup is a youth age band. Bands have a fixed ordering used by
// cumulative age filtering.
type AgeGroup string

const (
	AgeGroupU7    AgeGroup = "U-7"
	AgeGroupU8    AgeGroup = "U-8"
	AgeGroupU9    AgeGroup = "U-9"
	AgeGroupU10   AgeGroup = "U-10"
	AgeGroupU11   AgeGroup = "U-11"
	AgeGroupU12   AgeGroup = "U-12"
	AgeGroupU13   AgeGroup = "U-13"
	AgeGroupU14   AgeGroup = "U-14"
	AgeGroupU15Up AgeGroup = "U-15+"
)

const ageGroupsCount = 9

var ageGroupOrder = [ageGroupsCount]AgeGroup{
	AgeGroupU7, AgeGroupU8, AgeGroupU9, AgeGroupU10, AgeGroupU11,
	AgeGroupU12, AgeGroupU13, AgeGroupU14, AgeGroupU15Up,
}

// ErrInvalidAgeGroup is returned when an age band is not one of the known values
var ErrInvalidAgeGroup = shared.NewDomainError("INVALID_AGE_GROUP", "Age group must be one of U-7 through U-15+")

// AllAgeGroups returns every band in ascending order.
func AllAgeGroups() []AgeGroup {
	out := make([]AgeGroup, ageGroupsCount)
	copy(out, ageGroupOrder[:])
	return out
}

// ParseAgeGroup accepts a band label, ignoring surrounding whitespace and
// letter case ("u-9" parses as U-9).
func ParseAgeGroup(s string) (AgeGroup, error) {
	candidate := AgeGroup(strings.ToUpper(strings.TrimSpace(s)))
	if candidate.Ordinal() < 0 {
		return "", ErrInvalidAgeGroup
	}
	return candidate, nil
}

// Ordinal returns the band's position in the fixed ordering, or -1 when unknown.
func (g AgeGroup) Ordinal() int {
	for i, v := range ageGroupOrder {
		if v == g {
			return i
		}
	}
	return -1
}

// IsValid reports whether g is a known band.
func (g AgeGroup) IsValid() bool {
	return g.Ordinal() >= 0
}

// String implements fmt.Stringer
func (g AgeGroup) String() string {
	return string(g)
}

// AgeGroupsUpTo returns all bands up to and including g. Unknown bands yield nil.
func AgeGroupsUpTo(g AgeGroup) []AgeGroup {
	idx := g.Ordinal()
	if idx < 0 {
		return nil
	}
	out := make([]AgeGroup, idx+1)
	copy(out, ageGroupOrder[:idx+1])
	return out
}

// IncludedIn reports whether a skill tagged with g is shown for the selected
// band. Cumulative mode includes every band at or below the selection.
func (g AgeGroup) IncludedIn(selected AgeGroup, exact bool) bool {
	if exact {
		return g == selected && g.IsValid()
	}
	return slices.Contains(AgeGroupsUpTo(selected), g)
}
