package main

import "errors"

// harnessError is a wrapper around an error that adds a user-facing reason.
type harnessError struct {
	err    error
	reason string
}

func (e harnessError) Error() string {
	return e.err.Error()
}

func (e harnessError) Reason() string {
	return e.reason
}

// errSilent marks a failure that the command already reported in its own
// output; main only has to exit nonzero.
var errSilent = errors.New("already reported")
