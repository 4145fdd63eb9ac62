package timeline

import "errors"

var (
	ErrInvalidTime              = errors.New("invalid time")
	ErrInvalidFrameRate         = errors.New("invalid frame rate")
	ErrInvalidTickResolution    = errors.New("tick resolution is coarser than display rate")
	ErrInvalidChannelRole       = errors.New("invalid channel role")
	ErrIncompleteSourceChannel  = errors.New("source track is missing a channel")
	ErrUnknownInterpolationMode = errors.New("unknown interpolation mode")
)
