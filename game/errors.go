package game

import "errors"

var (
	ErrNoPath                = errors.New("no path to edge")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidCell           = errors.New("invalid cell")
)
