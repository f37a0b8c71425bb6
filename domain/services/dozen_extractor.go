package services

import (
	"fmt"
	"regexp"
	"sort"
)

// OfficialNumberCount is the number of official prize numerals per draw
// (1st through 5th federal lottery prizes).
const OfficialNumberCount = 5

// officialNumberPattern matches a 4-6 digit prize numeral. Only the last
// four digits (the "thousand" segment) are meaningful for matching.
var officialNumberPattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// ExtractDozens converts the five official prize numerals into the
// deduplicated, sorted set of valid two-digit dozens. A numeral such as
// "71900" contributes its thousand segment "1900" as the dozens "19" and
// "00". Pure function; fails only on malformed input.
func ExtractDozens(officialNumbers []string) ([]string, error) {
	if len(officialNumbers) != OfficialNumberCount {
		return nil, fmt.Errorf("%w: expected %d entries, got %d",
			ErrInvalidOfficialNumbers, OfficialNumberCount, len(officialNumbers))
	}

	set := make(map[string]bool, OfficialNumberCount*2)
	for i, numeral := range officialNumbers {
		if !officialNumberPattern.MatchString(numeral) {
			return nil, fmt.Errorf("%w: entry %d %q is not a 4-6 digit numeral",
				ErrInvalidOfficialNumbers, i+1, numeral)
		}

		thousand := numeral[len(numeral)-4:]
		set[thousand[:2]] = true
		set[thousand[2:]] = true
	}

	dozens := make([]string, 0, len(set))
	for dozen := range set {
		dozens = append(dozens, dozen)
	}
	sort.Strings(dozens)

	return dozens, nil
}
