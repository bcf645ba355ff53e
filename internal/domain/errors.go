package domain

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrNotRegistered = errors.New("user is not registered")
	ErrInvalidToken  = errors.New("invite token does not match any master")
)
