package delivery

import (
	"errors"
)

var (
	ErrNotFound = errors.New("delivery not found")
)
