package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")

	ErrUnsupportedPlatform = errors.New("unsupported platform - only YouTube, Instagram, X (Twitter), and Facebook are supported")
	ErrUnauthorized        = errors.New("unauthorized")
)
