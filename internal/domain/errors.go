package domain

import "errors"

var (
	ErrInvalidSide        = errors.New("invalid sidebar side")
	ErrInvalidVariant     = errors.New("invalid sidebar variant")
	ErrKeyNotFound        = errors.New("storage key not found")
	ErrSidebarNotFound    = errors.New("sidebar not found")
	ErrStorageCorrupt     = errors.New("persisted sidebar state is corrupt")
	ErrStorageUnavailable = errors.New("durable storage unavailable")
	ErrStorageWrite       = errors.New("failed to write sidebar state")
	ErrUnsupportedVersion = errors.New("unsupported sidebar state version")
)
