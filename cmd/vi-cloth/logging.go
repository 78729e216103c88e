package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "vi-cloth.log"
	maxLogSize  = 10 * 1024 * 1024 // Rotate beyond 10MB
)

// setupLogging routes the std logger to logs/vi-cloth.log when debug is set, rotating an oversized file
// Without debug all log output is discarded; the terminal belongs to the UI
// Returns the open log file for the caller to close, or nil
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "log directory: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(logFileName)
		rotated := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(logFileName, ext), time.Now().Format("20060102-150405"), ext)
		if err := os.Rename(logPath, filepath.Join(logDir, rotated)); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation: %v\n", err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("=== vi-cloth started (pid %d) ===", os.Getpid())
	return f
}
