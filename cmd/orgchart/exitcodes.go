package main

import (
	"errors"

	"github.com/spec-kit/orgchart-viewer/internal/roster"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitFetch      = 4
	exitDB         = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	var de *roster.DecodeError
	if errors.As(err, &de) {
		return exitValidation
	}
	var fe *roster.FetchError
	if errors.As(err, &fe) {
		return exitFetch
	}
	return 1
}
