package contracts

import "fmt"

// DeviceInfo contains information about a MIDI source.
type DeviceInfo struct {
	Name         string // Device name, possibly empty.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity to which the device belongs.
}

// Label returns the display name of the source at index, falling back to a
// placeholder when the driver reports no name.
func (d DeviceInfo) Label(index int) string {
	if d.Name == "" {
		return fmt.Sprintf("Unnamed source: %d", index)
	}
	return d.Name
}
