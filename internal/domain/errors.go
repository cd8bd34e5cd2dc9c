package domain

import (
	"errors"
	"fmt"
)

// ErrUserInput is the base of every error caused by the caller rather than the system.
// Transports show these to the user and do not log them as failures.
var ErrUserInput = errors.New("invalid user input")

var (
	ErrEmptyPrompt      = fmt.Errorf("%w: prompt is empty", ErrUserInput)
	ErrPermissionDenied = fmt.Errorf("%w: permission denied", ErrUserInput)
	ErrNothingToReview  = fmt.Errorf("%w: no submissions pending", ErrUserInput)
)

// ErrIOFailure marks a store that could not be read or written
var ErrIOFailure = errors.New("store io failure")

// ErrSendFailure marks a message the chat platform did not accept
var ErrSendFailure = errors.New("chat send failure")

// StoreError wraps a failed store operation.
type StoreError struct {
	Op    string
	Store string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Store, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrIOFailure, e.Err}
}

// SendError wraps a message that could not be delivered to a channel.
type SendError struct {
	ChannelID string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to channel %s: %v", e.ChannelID, e.Err)
}

func (e *SendError) Unwrap() []error {
	return []error{ErrSendFailure, e.Err}
}

// IsUserError reports whether err should be surfaced to the invoking user as-is
func IsUserError(err error) bool {
	return errors.Is(err, ErrUserInput)
}
