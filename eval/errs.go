package eval

import "errors"

var (
	ErrParse        = errors.New("formula parse error")
	ErrSymbolExists = errors.New("function exists")
)
