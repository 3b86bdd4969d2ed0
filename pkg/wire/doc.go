// Package wire defines the message types exchanged between a client and the
// motion command processor, and their CBOR encoding.
//
// # Message Kinds
//
// Every message carries a correlation ID. Requests are device commands
// (StopDeviceCmd, SingleMotorVibrateCmd, VibrateCmd, RotateCmd, LinearCmd,
// FleshlightLaunchFW12Cmd) or processor queries (RequestDeviceList).
// Responses are Ok, Error or DeviceList and echo the request ID.
//
// # Encoding
//
// Messages are encoded as a two-key envelope {1: kind, 2: body} where body
// is the kind-specific struct encoded with integer keys. Encoding is
// deterministic (canonical key order), decoding is lenient.
package wire
