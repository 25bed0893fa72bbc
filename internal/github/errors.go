package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// ErrNotFound is returned when the requested pull request does not exist
var ErrNotFound = errors.New("pull request not found")

// FetchError describes a failed API call. Status is 0 when no response was received.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s failed with status %d: %v", e.Endpoint, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// newFetchError converts a go-github error into a FetchError, marking 404s as ErrNotFound
func newFetchError(endpoint string, resp *github.Response, err error) *FetchError {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	var ghErr *github.ErrorResponse
	if status == 0 && errors.As(err, &ghErr) && ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}

	if status == http.StatusNotFound {
		err = fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return &FetchError{Endpoint: endpoint, Status: status, Err: err}
}
