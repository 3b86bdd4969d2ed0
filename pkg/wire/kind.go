package wire

// Kind identifies the concrete type of a Message.
type Kind uint8

const (
	// KindOk acknowledges a successfully handled request.
	KindOk Kind = 1

	// KindError reports a failed request.
	KindError Kind = 2

	// KindStopDeviceCmd stops all motion on a device.
	KindStopDeviceCmd Kind = 3

	// KindSingleMotorVibrateCmd sets the speed of a single vibration motor.
	KindSingleMotorVibrateCmd Kind = 4

	// KindVibrateCmd sets per-motor vibration speeds.
	KindVibrateCmd Kind = 5

	// KindRotateCmd sets per-motor rotation speed and direction.
	KindRotateCmd Kind = 6

	// KindLinearCmd moves a linear actuator to a normalized position.
	KindLinearCmd Kind = 7

	// KindFleshlightLaunchFW12Cmd is the legacy (speed, position) actuator command.
	KindFleshlightLaunchFW12Cmd Kind = 8

	// KindRequestDeviceList asks the processor for its registered devices.
	KindRequestDeviceList Kind = 9

	// KindDeviceList answers KindRequestDeviceList.
	KindDeviceList Kind = 10
)

// String returns the message name as used on the wire by existing clients.
func (k Kind) String() string {
	switch k {
	case KindOk:
		return "Ok"
	case KindError:
		return "Error"
	case KindStopDeviceCmd:
		return "StopDeviceCmd"
	case KindSingleMotorVibrateCmd:
		return "SingleMotorVibrateCmd"
	case KindVibrateCmd:
		return "VibrateCmd"
	case KindRotateCmd:
		return "RotateCmd"
	case KindLinearCmd:
		return "LinearCmd"
	case KindFleshlightLaunchFW12Cmd:
		return "FleshlightLaunchFW12Cmd"
	case KindRequestDeviceList:
		return "RequestDeviceList"
	case KindDeviceList:
		return "DeviceList"
	default:
		return "Unknown"
	}
}

// IsValid returns true if k names a known message kind.
func (k Kind) IsValid() bool {
	return k >= KindOk && k <= KindDeviceList
}

// IsDeviceCommand returns true for kinds that target a single device.
func (k Kind) IsDeviceCommand() bool {
	return k >= KindStopDeviceCmd && k <= KindFleshlightLaunchFW12Cmd
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k := KindOk; k <= KindDeviceList; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
