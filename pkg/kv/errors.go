package kv

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound    = errors.New("kv: item not found")
	ErrConditionFailed = errors.New("kv: condition failed")
)

// CommitError reports which operation's precondition aborted a Commit.
type CommitError struct {
	OpIndex int
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("kv: commit aborted, precondition failed on op %d", e.OpIndex)
}

func (e *CommitError) Unwrap() error { return ErrConditionFailed }
