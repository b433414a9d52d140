package entity

import (
	"errors"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrDuplicateOrder   = errors.New("order with this id already exists")
	ErrInvalidData      = errors.New("invalid data")
	ErrConfigPathNotSet = errors.New("CONFIG_PATH not set and -config flag not provided")
)
