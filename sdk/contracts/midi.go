package contracts

// Packet is one Control-Change message delivered by a driver.
type Packet struct {
	Channel    uint8 // Channel is 1-based (1-16).
	Controller uint8 // Controller number (0-127).
	Value      uint8 // Controller value (0-127).
}

// PacketListener receives packets from a single driver registration.
// Both methods are invoked on the driver's delivery thread and must not block
// for long.
type PacketListener interface {
	OnPacket(p Packet)
	OnError(err error)
}

// Port is a live registration of a PacketListener with a MIDI source.
type Port interface {
	Close() error // Stops delivery and releases the source.
}

// Driver is the MIDI transport used by the bridge.
type Driver interface {
	ListDevices() ([]DeviceInfo, error)                         // Lists input sources in driver order.
	Listen(deviceID int, listener PacketListener) (Port, error) // Opens a source and starts delivery.
	Close() error                                               // Releases the driver.
}
