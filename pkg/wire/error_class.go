package wire

// ErrorClass categorizes an Error message.
type ErrorClass uint8

const (
	// ErrorClassUnknown is used when no better class applies.
	ErrorClassUnknown ErrorClass = 0

	// ErrorClassInit indicates a failure during connection setup.
	ErrorClassInit ErrorClass = 1

	// ErrorClassPing indicates a missed keepalive.
	ErrorClassPing ErrorClass = 2

	// ErrorClassMessage indicates a malformed or unsupported message.
	ErrorClassMessage ErrorClass = 3

	// ErrorClassDevice indicates the device rejected or could not execute a command.
	ErrorClassDevice ErrorClass = 4
)

// String returns the error class name.
func (c ErrorClass) String() string {
	switch c {
	case ErrorClassUnknown:
		return "ERROR_UNKNOWN"
	case ErrorClassInit:
		return "ERROR_INIT"
	case ErrorClassPing:
		return "ERROR_PING"
	case ErrorClassMessage:
		return "ERROR_MSG"
	case ErrorClassDevice:
		return "ERROR_DEVICE"
	default:
		return "UNKNOWN"
	}
}
