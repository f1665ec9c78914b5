// Package diag is ambient stderr logging gated by MSXDIS_LOG_LEVEL, in the
// teacher's style: plain fmt.Fprintf(os.Stderr, ...) calls, no logging
// library, no timestamps or structured fields.
package diag

import (
	"fmt"
	"os"
	"strings"
)

// Level is a logging verbosity tier.
type Level int

const (
	LevelSilent Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// levelFromEnv reads MSXDIS_LOG_LEVEL. The default tier is "warn": Warnf
// output always appears (see below), but Infof/Debugf stay quiet unless
// the caller asks for more.
func levelFromEnv() Level {
	switch strings.ToLower(os.Getenv("MSXDIS_LOG_LEVEL")) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "silent", "quiet":
		return LevelSilent
	default:
		return LevelWarn
	}
}

var current = levelFromEnv()

// Infof prints a message at LevelInfo or above.
func Infof(format string, args ...interface{}) {
	if current >= LevelInfo {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Debugf prints a message only at LevelDebug.
func Debugf(format string, args ...interface{}) {
	if current >= LevelDebug {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}

// Warnf always prints, regardless of level — a warning is never silenced.
func Warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
