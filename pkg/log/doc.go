// Package log captures protocol events exchanged between a client bridge and
// the command processor.
//
// It is separate from operational logging (slog): capture produces a
// machine-readable trace of every message and connection state change,
// suitable for replay and offline analysis.
//
//	// Console during development
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Binary capture file
//	fl, _ := log.NewFileLogger("/var/log/motion/session.mlog")
//	cfg.ProtocolLogger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// Capture files are a stream of CBOR-encoded Events (.mlog). Reader streams
// them back with optional filtering; the motion-log tool renders them.
package log
