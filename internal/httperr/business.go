package httperr

import (
	"errors"
	"net/http"
)

// BusinessError is a rule violation the client can act on. Status defaults to 400.
type BusinessError struct {
	Status  int
	Code    string
	Message string
	Extra   map[string]any
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e BusinessError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBadRequest(code, message string) error {
	return BusinessError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Status: http.StatusNotFound, Code: code, Message: message}
}

func ErrForbidden(code, message string) error {
	return BusinessError{Status: http.StatusForbidden, Code: code, Message: message}
}

func ErrConflict(code, message string) error {
	return BusinessError{Status: http.StatusConflict, Code: code, Message: message}
}

// WithExtra returns a copy of err carrying additional response fields.
func WithExtra(err error, key string, value any) error {
	var be BusinessError
	if !errors.As(err, &be) {
		return err
	}
	extra := make(map[string]any, len(be.Extra)+1)
	for k, v := range be.Extra {
		extra[k] = v
	}
	extra[key] = value
	be.Extra = extra
	return be
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
