package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command errors so CLI output and structured logs can
// be correlated with the stage that failed.
const (
	TextCodeInvalid  = "JSWEB_COMMAND_INVALID"
	TextCodeCanceled = "JSWEB_COMMAND_CANCELED"
	TextCodeTimeout  = "JSWEB_COMMAND_TIMEOUT"
	TextCodeContext  = "JSWEB_COMMAND_CONTEXT"
	TextCodeFailed   = "JSWEB_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command message failed validation").
		WithTextCode(TextCodeInvalid)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	code := TextCodeContext
	message := "command context error"
	switch {
	case errors.Is(err, context.Canceled):
		code = TextCodeCanceled
		message = "command was cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		code = TextCodeTimeout
		message = "command ran past its deadline"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(TextCodeFailed)
}
