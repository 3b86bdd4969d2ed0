package protocol

// MotionState is the last commanded motion of a device.
type MotionState struct {
	// LinearPosition is the last actuator position in device units (0-99).
	// LinearCmd moves are clamped; raw launch commands are stored as sent.
	LinearPosition uint8

	// LinearSpeed is the last actuator speed in device units (0-99).
	LinearSpeed uint8

	// VibrateSpeed is the last vibration speed (0-1).
	VibrateSpeed float64

	// RotateSpeed is the last rotation speed (0-1).
	RotateSpeed float64

	// RotateClockwise is the last rotation direction.
	RotateClockwise bool
}
