package ebidx

import (
	"errors"
	"fmt"
)

// Error represents an ebidx error with a taxonomy code, mirroring the
// teacher's Error/ErrorCode split so callers can branch on Code() instead of
// string-matching.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // wrapped error, e.g. the underlying I/O failure
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ebidx: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("ebidx: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode enumerates the error taxonomy from spec.md §6.
type ErrorCode int

const (
	// Success indicates the operation completed normally.
	Success ErrorCode = iota

	// ErrNoCurSub indicates the caller used a word/keyword/multi search
	// API without a current subbook/search selected.
	ErrNoCurSub
	// ErrNoCurAppSub indicates an alternation call was made without a
	// current appendix subbook.
	ErrNoCurAppSub
	// ErrNoCurFont indicates the subbook has no narrow-font alternation.
	ErrNoCurFont
	// ErrNoSuchCharText indicates the character number is out of the
	// subbook's alternation range, or has an illegal low byte.
	ErrNoSuchCharText
	// ErrFailSeekText indicates a seek failure on the text stream.
	ErrFailSeekText
	// ErrFailReadText indicates a read failure on the text stream.
	ErrFailReadText
	// ErrFailSeekApp indicates a seek failure on the appendix stream.
	ErrFailSeekApp
	// ErrFailReadApp indicates a read failure on the appendix stream.
	ErrFailReadApp
	// ErrUnexpText indicates structural corruption: an out-of-bounds
	// offset, an unknown group-id, a non-leaf page where a leaf was
	// expected, or a descent that exceeded MaxIndexDepth.
	ErrUnexpText
	// ErrNoPrevSearch indicates hit_list was called with no query
	// previously submitted via a presearch call.
	ErrNoPrevSearch
)

var errorMessages = map[ErrorCode]string{
	Success:           "success",
	ErrNoCurSub:       "no current subbook has been selected",
	ErrNoCurAppSub:    "no current appendix subbook has been selected",
	ErrNoCurFont:      "current subbook has no narrow font alternation",
	ErrNoSuchCharText: "no alternation text for the given character number",
	ErrFailSeekText:   "failed to seek the text stream",
	ErrFailReadText:   "failed to read the text stream",
	ErrFailSeekApp:    "failed to seek the appendix stream",
	ErrFailReadApp:    "failed to read the appendix stream",
	ErrUnexpText:      "unexpected structure in text stream",
	ErrNoPrevSearch:   "hit_list called with no search submitted",
}

// NewError creates a new Error with the given code.
func NewError(code ErrorCode) *Error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", code)
	}
	return &Error{Code: code, Message: msg}
}

// WrapError creates a new Error wrapping an underlying cause.
func WrapError(code ErrorCode, err error) *Error {
	e := NewError(code)
	e.Err = err
	return e
}

// Code returns the ErrorCode of err, or Success if err is nil and
// ErrUnexpText if err is a non-ebidx error.
func Code(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnexpText
}

// IsNoPrevSearch reports whether err is ErrNoPrevSearch.
func IsNoPrevSearch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrNoPrevSearch
}

// IsCorrupted reports whether err indicates format corruption (ErrUnexpText).
func IsCorrupted(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrUnexpText
}

// IsNoSuchChar reports whether err is ErrNoSuchCharText.
func IsNoSuchChar(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrNoSuchCharText
}
