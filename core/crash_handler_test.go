package core

import (
	"bytes"
	"strings"
	"testing"
)

type fakeTerminal struct {
	finis int
}

func (f *fakeTerminal) Fini() { f.finis++ }

func TestGoRecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	code := make(chan int, 1)

	oldExit, oldErr := exit, stderr
	exit = func(c int) { code <- c }
	stderr = &buf
	defer func() { exit, stderr = oldExit, oldErr }()

	term := &fakeTerminal{}
	RegisterTerminal(term)

	Go(func() { panic("spring table corrupted") })

	if got := <-code; got != 1 {
		t.Fatalf("exit code = %d, want 1", got)
	}
	if term.finis != 1 {
		t.Errorf("terminal finalized %d times, want 1", term.finis)
	}
	if !strings.Contains(buf.String(), "spring table corrupted") {
		t.Errorf("crash report missing panic value: %q", buf.String())
	}
}

func TestHandleCrashNil(t *testing.T) {
	oldExit := exit
	called := false
	exit = func(int) { called = true }
	defer func() { exit = oldExit }()

	HandleCrash(nil)
	if called {
		t.Fatal("nil recover value must not exit")
	}
}
