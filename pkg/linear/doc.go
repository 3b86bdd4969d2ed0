// Package linear converts normalized linear-motion vectors into the legacy
// two-parameter (speed, position) actuator command.
//
// The conversion is pure: callers supply the last commanded position and
// receive a command that always lies inside the actuator's safety band.
package linear
