package pipeline

import "errors"

// ErrNoAnonymizer is returned by Run if Options.Anonymizer is nil.
var ErrNoAnonymizer = errors.New("pipeline: no anonymizer configured")

// ErrNoInput is returned by Run if the input path list is empty.
var ErrNoInput = errors.New("pipeline: no input files")
