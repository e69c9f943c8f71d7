package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// TransportError is a network failure or an unexpected non-2xx response.
// It is worth retrying once the user asks to.
type TransportError struct {
	Op         string
	StatusCode int // zero when no response was received
	Code       string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a 400-class rejection of malformed or missing input.
// Retrying the same request will fail again.
type ValidationError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.Op == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Message)
}

// NotFoundError reports a referenced entity or audio file that does not exist.
type NotFoundError struct {
	Op      string
	Code    string
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found: %s", e.Op, e.Message)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeError maps a non-2xx response to the client error taxonomy.
func decodeError(op string, resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	code, msg := body.Error.Code, body.Error.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Op: op, Code: code, Message: msg}
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusRequestEntityTooLarge,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Op: op, StatusCode: resp.StatusCode, Code: code, Message: msg}
	default:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Code: code, Message: msg}
	}
}
