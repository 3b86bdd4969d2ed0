package log

import "gopkg.in/natefinch/lumberjack.v2"

// NewRotatingLogger writes events to path and rotates the file once it
// reaches maxSizeMB, keeping maxBackups old files. Each event is written
// with a single Write, so rotated files always hold whole events.
func NewRotatingLogger(path string, maxSizeMB, maxBackups int) *FileLogger {
	return NewStreamLogger(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	})
}
