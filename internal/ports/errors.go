package ports

import "errors"

var (
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrFetchFailed         = errors.New("fetch charging stations failed")
	ErrNoStations          = errors.New("no charging stations found")
)
