package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

// Finisher restores the terminal, satisfied by tcell.Screen
type Finisher interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finisher

	// exit and stderr are swapped in tests
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// RegisterTerminal sets the screen restored before a crash report, nil clears it
func RegisterTerminal(f Finisher) {
	crashMu.Lock()
	crashTerminal = f
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	term := crashTerminal
	crashTerminal = nil
	crashMu.Unlock()

	// Restore terminal to sane state before printing
	if term != nil {
		term.Fini()
	} else {
		// Fallback: leave alt screen, show cursor, reset attributes
		fmt.Fprint(os.Stdout, "\x1b[?1049l\x1b[?25h\x1b[0m")
	}
	os.Stdout.Sync()

	fmt.Fprintf(stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())

	exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
