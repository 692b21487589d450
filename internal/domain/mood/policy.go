package mood

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what happens when a user records a second entry
// for a date that already has one.
type DuplicatePolicy string

const (
	// DuplicateAllow keeps every entry as a separate record (multiple check-ins per day)
	DuplicateAllow DuplicatePolicy = "allow"
	// DuplicateReject refuses the new entry
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicateReplace overwrites the existing entry for that date
	DuplicateReplace DuplicatePolicy = "replace"
)

// ParseDuplicatePolicy parses a policy name; empty means DuplicateAllow.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicateAllow, nil
	case DuplicateAllow, DuplicateReject, DuplicateReplace:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want allow, reject or replace)", s)
	}
}
