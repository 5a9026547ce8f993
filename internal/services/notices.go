package services

import (
	"errors"
	"exypnos-finder/internal/ports"
)

type NoticeKind string

const (
	// Blocking notices interrupt the user until acknowledged.
	NoticeBlocking NoticeKind = "blocking"
	// Inline notices are embedded in the map view and dismissible.
	NoticeInline NoticeKind = "inline"
)

// User-facing message for a failed operation.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

const (
	msgInvalidInput  = "Please fill in all fields with valid values"
	msgNoLocation    = "Error: Unable to get your location. Please enable location services."
	msgFetchFailed   = "Error fetching charging stations. Please try again later."
	msgNoStations    = "No charging stations found in your area. Try increasing the search radius."
	msgUnknownFailed = "Something went wrong. Please try again later."
)

// NoticeFor maps an operation error onto the notice shown to the user.
func NoticeFor(err error) Notice {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return Notice{Kind: NoticeBlocking, Message: msgInvalidInput}
	case errors.Is(err, ports.ErrLocationUnavailable):
		return Notice{Kind: NoticeBlocking, Message: msgNoLocation}
	case errors.Is(err, ports.ErrNoStations):
		return Notice{Kind: NoticeBlocking, Message: msgNoStations}
	case errors.Is(err, ports.ErrFetchFailed):
		return Notice{Kind: NoticeInline, Message: msgFetchFailed}
	default:
		return Notice{Kind: NoticeBlocking, Message: msgUnknownFailed}
	}
}
