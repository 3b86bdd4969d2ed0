// Package interaction connects a client to the in-process motion command
// processor.
//
// # Server
//
// The Server owns the registered device protocols and answers requests:
//
//	srv := interaction.NewServer()
//	p, _ := protocol.New[*device.Simulated]("launch", dev, protocol.CapLinear)
//	idx := srv.AddDevice(p)
//
//	srv.SetMessageHandler(func(data []byte) {
//	    // encoded responses arrive here
//	})
//	err := srv.Deliver(ctx, encodedRequest)
//
// # Client
//
// The Client is a two-state bridge (disconnected, connected). Connect
// creates a fresh Server, subscribes to its output and runs the configured
// Initializer. Send encodes a message, delivers it and waits for the
// response with the same ID:
//
//	client := interaction.NewClient(interaction.DefaultClientConfig())
//	if err := client.Connect(ctx, "local"); err != nil {
//	    return err
//	}
//	client.Server().AddDevice(p)
//
//	resp, err := client.Send(ctx, &wire.LinearCmd{
//	    ID:          client.NextMessageID(),
//	    DeviceIndex: idx,
//	    Vectors:     []wire.LinearVector{{Duration: 500, Position: 0.5}},
//	})
//
// An Error response is returned together with a *ResponseError, which
// unwraps to ErrDeviceRejected or ErrMessageRejected depending on its class.
//
// Message handlers registered with OnMessage run on the goroutine calling
// Send and must not call Send themselves.
package interaction
