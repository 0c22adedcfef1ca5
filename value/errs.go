package value

import "errors"

var (
	ErrReadOnly          = errors.New("cannot set value on read-only field")
	ErrIndexOutOfBounds  = errors.New("index out of bounds")
	ErrSourceOutOfBounds = errors.New("source index out of bounds")
	ErrTargetOutOfBounds = errors.New("target index out of bounds")
	ErrNoFactory         = errors.New("node factory not set")
	ErrNotArray          = errors.New("not an array node")
	ErrNotObject         = errors.New("not an object node")
	ErrAttached          = errors.New("node already has a parent")
	ErrTypeMismatch      = errors.New("value does not match node type")
)
