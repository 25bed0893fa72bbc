package cache

import (
	"errors"
	"fmt"
)

// ErrMalformedLegacyEntry marks a legacy value that could not be decoded
var ErrMalformedLegacyEntry = errors.New("malformed legacy cache entry")

// StorageError reports a cache read, write, or serialization failure
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache %s %s failed: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
