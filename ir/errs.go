package ir

import "errors"

var (
	ErrParse = errors.New("json parse error")
)
