package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Stable text codes attached to handler failures so dispatch layers can
// branch on the failure mode without string matching.
const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	message, code := "command context error", commandContextErrorCode
	switch err {
	case context.Canceled:
		message, code = "command execution cancelled", commandContextCanceled
	case context.DeadlineExceeded:
		message, code = "command execution deadline exceeded", commandContextTimeout
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).
		WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}
