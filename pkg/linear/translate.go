package linear

import "math"

// Actuator limits in device units.
const (
	// MaxSpeed is the highest speed ever commanded.
	MaxSpeed = 95

	// MinPosition and MaxPosition bound the commanded position. They are the
	// integer interior of the [4.5, 94.5] safety band.
	MinPosition = 5
	MaxPosition = 94
)

// Command is a legacy actuator command in device units.
type Command struct {
	Speed    uint8
	Position uint8
}

// Translate computes the legacy command that moves the actuator from
// lastPosition (device units, 0-99) to position (normalized, 0-1) in
// duration milliseconds.
//
// A target equal to lastPosition needs no movement and yields speed 0.
func Translate(duration uint32, position float64, lastPosition uint8) Command {
	current := position * 100
	return Command{
		Speed:    speed(duration, math.Abs(current-float64(lastPosition))),
		Position: goal(current),
	}
}

// speed implements 25000 * (duration*90/delta)^-1.05, clamped to [0, MaxSpeed].
func speed(duration uint32, delta float64) uint8 {
	if delta == 0 || math.IsNaN(delta) {
		return 0
	}
	s := math.Floor(25000 * math.Pow(float64(duration)*90/delta, -1.05))
	switch {
	case math.IsNaN(s), s < 0:
		return 0
	case s > MaxSpeed:
		return MaxSpeed
	}
	return uint8(s)
}

// goal maps a 0-100 position into the safety band.
func goal(current float64) uint8 {
	g := math.Floor(current/99*90 + 4.5)
	switch {
	case math.IsNaN(g), g < MinPosition:
		return MinPosition
	case g > MaxPosition:
		return MaxPosition
	}
	return uint8(g)
}
