package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped handler errors so tool exit paths can
// classify failures without string matching.
const (
	codeInvalidMessage = "DOCMIGRATE_INVALID_MESSAGE"
	codeRunCanceled    = "DOCMIGRATE_RUN_CANCELED"
	codeRunTimeout     = "DOCMIGRATE_RUN_TIMEOUT"
	codeRunFailed      = "DOCMIGRATE_RUN_FAILED"
)

// wrapValidationError tags a rejected message. Validation failures come
// from the message's own Validate, so the original field map survives as
// the cause.
func wrapValidationError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, opMessage(operation, "invalid message")).
		WithTextCode(codeInvalidMessage)
}

// wrapRunError tags a failed or aborted run, distinguishing interruption
// and deadline expiry from ordinary failure so callers know whether
// partial output on disk is expected.
func wrapRunError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, opMessage(operation, "run canceled")).
			WithTextCode(codeRunCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, opMessage(operation, "run deadline exceeded")).
			WithTextCode(codeRunTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, opMessage(operation, "run failed")).
			WithTextCode(codeRunFailed)
	}
}

func opMessage(operation, detail string) string {
	if operation == "" {
		return detail
	}
	return operation + ": " + detail
}
