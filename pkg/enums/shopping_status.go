package enums

import "fmt"

// ShoppingStatus tracks a wanted-for-purchase item through acquisition.
type ShoppingStatus string

const (
	ShoppingStatusPending ShoppingStatus = "pending"
	ShoppingStatusBuying  ShoppingStatus = "buying"
	ShoppingStatusBought  ShoppingStatus = "bought"
)

var validShoppingStatuses = []ShoppingStatus{
	ShoppingStatusPending,
	ShoppingStatusBuying,
	ShoppingStatusBought,
}

// String implements fmt.Stringer.
func (s ShoppingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShoppingStatus.
func (s ShoppingStatus) IsValid() bool {
	for _, candidate := range validShoppingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShoppingStatus converts raw input into a ShoppingStatus.
func ParseShoppingStatus(value string) (ShoppingStatus, error) {
	for _, candidate := range validShoppingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shopping status %q", value)
}
