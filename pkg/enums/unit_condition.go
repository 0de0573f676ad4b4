package enums

import "fmt"

// UnitCondition grades the cosmetic/functional state of a device.
type UnitCondition string

const (
	UnitConditionNew     UnitCondition = "new"
	UnitConditionLikeNew UnitCondition = "like_new"
	UnitConditionUsed    UnitCondition = "used"
)

var validUnitConditions = []UnitCondition{
	UnitConditionNew,
	UnitConditionLikeNew,
	UnitConditionUsed,
}

// String implements fmt.Stringer.
func (u UnitCondition) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UnitCondition.
func (u UnitCondition) IsValid() bool {
	for _, candidate := range validUnitConditions {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitCondition converts raw input into a UnitCondition.
func ParseUnitCondition(value string) (UnitCondition, error) {
	for _, candidate := range validUnitConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit condition %q", value)
}
