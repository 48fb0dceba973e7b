package drive

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// RemoteError wraps a failed Drive or Sheets call with the operation name and
// the originating HTTP status (0 when the failure happened before a response).
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("drive %s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("drive %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status embedded in a RemoteError, or 0.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

// IsRemote reports whether err originated from a Drive or Sheets call,
// including transport failures that never produced a status.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

func remoteErr(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &RemoteError{Op: op, Status: gerr.Code, Err: err}
	}
	return &RemoteError{Op: op, Err: err}
}
