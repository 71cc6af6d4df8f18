package domain

import (
	"strconv"
	"strings"

	dErrors "lifelink/pkg/domain-errors"
)

// OrganType identifies which organ a record concerns.
// Invariant: the value must be one of the supported organ types.
//
// Usage: construct via ParseOrganType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type OrganType string

const (
	OrganHeart  OrganType = "heart"
	OrganLiver  OrganType = "liver"
	OrganKidney OrganType = "kidney"
)

// validOrganTypes is the single source of truth for supported organ types.
var validOrganTypes = map[OrganType]bool{
	OrganHeart:  true,
	OrganLiver:  true,
	OrganKidney: true,
}

// ParseOrganType constructs an OrganType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseOrganType(s string) (OrganType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "organ type cannot be empty")
	}
	t := OrganType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported organ type: "+s)
	}
	return t, nil
}

// IsValid reports whether the organ type is supported.
func (t OrganType) IsValid() bool { return validOrganTypes[t] }

func (t OrganType) String() string { return string(t) }

// BloodType is an ABO/Rh blood group.
type BloodType string

const (
	BloodONeg  BloodType = "O-"
	BloodOPos  BloodType = "O+"
	BloodANeg  BloodType = "A-"
	BloodAPos  BloodType = "A+"
	BloodBNeg  BloodType = "B-"
	BloodBPos  BloodType = "B+"
	BloodABNeg BloodType = "AB-"
	BloodABPos BloodType = "AB+"
)

// donorCompatibility maps a donor blood group to the recipient groups it can
// donate to. O- is the universal donor; AB+ the universal recipient. The
// table is standard ABO/Rh practice, not a clinical authority.
var donorCompatibility = map[BloodType][]BloodType{
	BloodONeg:  {BloodONeg, BloodOPos, BloodANeg, BloodAPos, BloodBNeg, BloodBPos, BloodABNeg, BloodABPos},
	BloodOPos:  {BloodOPos, BloodAPos, BloodBPos, BloodABPos},
	BloodANeg:  {BloodANeg, BloodAPos, BloodABNeg, BloodABPos},
	BloodAPos:  {BloodAPos, BloodABPos},
	BloodBNeg:  {BloodBNeg, BloodBPos, BloodABNeg, BloodABPos},
	BloodBPos:  {BloodBPos, BloodABPos},
	BloodABNeg: {BloodABNeg, BloodABPos},
	BloodABPos: {BloodABPos},
}

// ParseBloodType constructs a BloodType from external input.
func ParseBloodType(s string) (BloodType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "blood type cannot be empty")
	}
	t := BloodType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported blood type: "+s)
	}
	return t, nil
}

// IsValid reports whether the blood type is a recognized ABO/Rh group.
func (t BloodType) IsValid() bool {
	_, ok := donorCompatibility[t]
	return ok
}

// CanDonateTo reports whether this donor group is compatible with the given
// recipient group.
func (t BloodType) CanDonateTo(recipient BloodType) bool {
	for _, r := range donorCompatibility[t] {
		if r == recipient {
			return true
		}
	}
	return false
}

func (t BloodType) String() string { return string(t) }

// Region is an opaque geographic region label. Distance between regions is a
// scoring policy concern, not a property of the value itself.
type Region string

// ParseRegion validates a region label from external input.
func ParseRegion(s string) (Region, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "region cannot be empty")
	}
	return Region(trimmed), nil
}

func (r Region) String() string { return string(r) }

// Urgency bounds for recipient urgency levels.
const (
	UrgencyMin = 1
	UrgencyMax = 10
)

// ParseUrgency validates an urgency level from external input.
func ParseUrgency(level int) (int, error) {
	if level < UrgencyMin || level > UrgencyMax {
		return 0, dErrors.New(dErrors.CodeInvalidInput,
			"urgency level must be between "+strconv.Itoa(UrgencyMin)+" and "+strconv.Itoa(UrgencyMax))
	}
	return level, nil
}
