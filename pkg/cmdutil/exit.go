package cmdutil

import (
	"fmt"
	"log/slog"
	"os"
)

// Exit codes of the application. Commands define their own codes starting at
// ExitCodeCustom.
const (
	ExitCodeOK           = 0
	ExitCodeGeneralError = 1
	ExitCodeUsage        = 2

	ExitCodeMultipleInterrupts = 16

	ExitCodeCustom = 32
)

// exitPanic is thrown by Exit and caught by HandleExit.
type exitPanic int

// Exit terminates the application with the given code after all deferred
// functions ran. HandleExit must be deferred first thing in main.
func Exit(code int) {
	panic(exitPanic(code))
}

// HandleExit turns a panic raised by Exit into os.Exit. Other panics are
// rethrown.
func HandleExit() {
	r := recover()
	if r == nil {
		return
	}

	code, ok := r.(exitPanic)
	if !ok {
		panic(r)
	}
	os.Exit(int(code))
}

// Must logs err and exits with ExitCodeGeneralError, if err is not nil.
func Must(err error) {
	if err != nil {
		exitWithError(err, ExitCodeGeneralError)
	}
}

// exitWithError logs err and exits with code. The debug log gets the "%+v"
// form, which includes the stack trace of github.com/pkg/errors.
func exitWithError(err error, code int) {
	slog.Debug(fmt.Sprintf("%+v", err))
	slog.Error(err.Error())
	Exit(code)
}
