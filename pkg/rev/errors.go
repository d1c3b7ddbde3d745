package rev

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors for statuses that carry no extra payload.
// Branch on them with errors.Is.
var (
	// ErrNotAuthorized is returned on 401 responses
	ErrNotAuthorized = errors.New("not authorized")
	// ErrForbidden is returned on 403 responses, e.g. cancelling an order too late
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned on 404 responses
	ErrNotFound = errors.New("not found")
	// ErrNotAcceptable is returned on 406 responses
	// when the requested attachment representation is not supported
	ErrNotAcceptable = errors.New("requested representation not acceptable")
)

// BadRequestError is returned on 400 responses.
// The API sends a machine readable code together with a message,
// see OrderRequestErrorCodes/InputRequestErrorCodes constants
type BadRequestError struct {
	Code    int
	Message string
	Detail  interface{}
}

func (e *BadRequestError) Error() string {
	res := fmt.Sprintf("API responded with code %d: %s", e.Code, e.Message)
	if e.Detail != nil {
		res += fmt.Sprintf(" Details: %v", e.Detail)
	}
	return res
}

// ServerError is returned on 5xx responses
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status code %d", e.StatusCode)
}

// UnknownError is returned for any status not covered by the taxonomy
type UnknownError struct {
	StatusCode int
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown API error: status code %d", e.StatusCode)
}

// ValidationError indicates a locally detected request problem.
// It is returned before any network call is made
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type badRequestBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail"`
}

// mapError turns a non success response into exactly one taxonomy error.
// The mapping is total - unlisted statuses yield *UnknownError
func mapError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		var body badRequestBody
		if err := json.NewDecoder(io.LimitReader(resp.Body, 10000)).Decode(&body); err != nil {
			return &BadRequestError{Message: "can't parse error body: " + err.Error()}
		}
		return &BadRequestError{Code: body.Code, Message: body.Message, Detail: body.Detail}
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNotAuthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusNotAcceptable:
		return ErrNotAcceptable
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return &ServerError{StatusCode: resp.StatusCode}
	}
	return &UnknownError{StatusCode: resp.StatusCode}
}

// Validation error codes the API may return in BadRequestError.Code
// when submitting an order
const (
	CodeMissingInputs                 = 10001
	CodeInvalidInputs                 = 10002
	CodeMultipleOptionsSpecified      = 10003
	CodeOptionsNotSpecified           = 10004
	CodeExternalLinkAndURISpecified   = 10005
	CodeExternalLinkOrURINotSpecified = 10006
	CodeInvalidMediaLength            = 20001
	CodeInvalidLanguageCode           = 20003
	CodeReferenceNumberTooLong        = 20010
	CodeMissingPaymentInfo            = 30001
	CodeMissingPaymentType            = 30002
	CodeIneligibleForBalancePayment   = 30010
	CodeAccountBalanceLimitExceeded   = 30011
)

// Validation error codes for input posting.
// Each operation family has its own numeric range, so the values here
// overlap with the order submission codes above. Match the constants
// of the operation that returned the BadRequestError
const (
	CodeUnsupportedContentType  = 10001
	CodeCouldNotRetrieveMedia   = 10002
	CodeInvalidMultipartRequest = 10003
	CodeUnspecifiedFilename     = 10004
)
