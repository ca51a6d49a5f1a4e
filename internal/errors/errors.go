package gerr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnauthenticated       = status.Error(codes.Unauthenticated, "no authenticated seller")
	ErrProfileNotFound       = status.Error(codes.NotFound, "profile not found")
	ErrProductNotFound       = status.Error(codes.NotFound, "product not found")
	ErrInvalidPayoutSettings = status.Error(codes.InvalidArgument, "invalid payout settings")
	ErrTooManyRequests       = status.Error(codes.ResourceExhausted, "too many requests")
)

// FetchError reports a failed read against one relation.
type FetchError struct {
	Relation string
	Err      error
}

// FetchFailed wraps err as a read failure of relation.
func FetchFailed(relation string, err error) error {
	return &FetchError{Relation: relation, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Relation, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Error())
}

// WriteError reports a profile update that did not persist. Fields holds the attempted values
// so the caller can show them back to the seller for a retry.
type WriteError struct {
	Fields map[string]any
	Err    error
}

// WriteFailed wraps err as a failed write of fields.
func WriteFailed(fields map[string]any, err error) error {
	return &WriteError{Fields: fields, Err: err}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) GRPCStatus() *status.Status {
	return status.New(codes.Aborted, e.Error())
}

// IsFetchFailed reports whether err is a read failure and returns the failed relation.
func IsFetchFailed(err error) (string, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Relation, true
	}
	return "", false
}

// Code returns the gRPC code carried by err, unwrapping as needed.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		return se.GRPCStatus().Code()
	}
	return codes.Internal
}
