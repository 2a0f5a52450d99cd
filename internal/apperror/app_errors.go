package apperror

import "errors"

var ErrSessionNotFound = errors.New("session not found")
