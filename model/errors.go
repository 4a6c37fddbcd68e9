package model

import "errors"

// Error taxonomy for the ingestion layer. Soft errors (ErrMalformedRecord)
// are absorbed inside a run; the rest abort the run or reject the request.
var (
	// ErrNotFound covers unknown connector IDs and unknown item IDs.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRunning rejects a run request for a source that already
	// has a non-terminal run in flight.
	ErrAlreadyRunning = errors.New("connector is already running")

	// ErrSourceUnreachable marks a transport or auth failure reaching an
	// external source; it aborts the run.
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrMalformedRecord marks a single raw record that could not be
	// normalized; the record is skipped, the run continues.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrTimeout marks a run that exceeded its fetch deadline.
	ErrTimeout = errors.New("fetch deadline exceeded")
)
