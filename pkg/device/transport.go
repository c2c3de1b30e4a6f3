package device

import "time"

// Transport abstracts the USB/HID/BLE/IP collaborator: this package
// neither parses wire protocols nor opens handles, it only reads
// whatever bytes arrive and hands them to a decoder the caller
// supplies.
type Transport interface {
	// Read blocks up to timeout for the next packet, returning its
	// bytes or an error (including a timeout error).
	Read(timeout time.Duration) ([]byte, error)
	Write(p []byte) (int, error)
}

// Decoder turns raw transport packets into IMU/frame/pose pushes,
// reporting the hardware timestamp it observed so the reader loop can
// feed ClockSync. Implementations wrap the device's transport-specific
// wire format; out of scope for this package beyond the interface.
type Decoder interface {
	// Decode consumes one packet and returns the hardware timestamp it
	// carried, invoking whatever sinks it owns as a side effect.
	Decode(packet []byte) (hwTimestampNs int64, err error)
}
