package enums

import "fmt"

// DeviceCheckStatus records the outcome of the advisory device analysis
// run when a unit enters inventory.
type DeviceCheckStatus string

const (
	DeviceCheckStatusNotRun    DeviceCheckStatus = "not_run"
	DeviceCheckStatusCompleted DeviceCheckStatus = "completed"
	DeviceCheckStatusFailed    DeviceCheckStatus = "analysis_failed"
)

var validDeviceCheckStatuses = []DeviceCheckStatus{
	DeviceCheckStatusNotRun,
	DeviceCheckStatusCompleted,
	DeviceCheckStatusFailed,
}

// String implements fmt.Stringer.
func (d DeviceCheckStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeviceCheckStatus.
func (d DeviceCheckStatus) IsValid() bool {
	for _, candidate := range validDeviceCheckStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeviceCheckStatus converts raw input into a DeviceCheckStatus.
func ParseDeviceCheckStatus(value string) (DeviceCheckStatus, error) {
	for _, candidate := range validDeviceCheckStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid device check status %q", value)
}
