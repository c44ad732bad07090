package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130 // shell convention for SIGINT
)

// ErrTasksFailed is returned by the watermark commands when at least one
// file failed. The failures have already been reported.
var ErrTasksFailed = stderrors.New("one or more files failed")

// ExitCode maps the error returned by the root command to a process exit
// code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled), errors.Is(err, errors.ErrCodeCanceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// FormatError renders err for the terminal. Coded errors show their code
// and path.
func FormatError(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return styleIconError.Render(iconError) + " " + err.Error()
	}
	msg := fmt.Sprintf("%s %s", styleIconError.Render(iconError), errors.UserMessage(err))
	if e.Path != "" {
		msg += StyleDim.Render(" (" + e.Path + ")")
	}
	return msg + " " + StyleDim.Render("["+string(e.Code)+"]")
}
