package jsonpath

import "errors"

var ErrInvalidPath = errors.New("invalid path")
