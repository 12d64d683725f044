package exceptions

import (
	"fmt"
	"healnexus-service/internal/pkg/constvars"
	"runtime"
)

type CustomError struct {
	StatusCode    int        `json:"-"`
	Success       bool       `json:"success"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	Err           error      `json:"-"`
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

// Unwrap exposes the cause so callers can match sentinels with errors.Is.
func (e *CustomError) Unwrap() error {
	return e.Err
}

func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	devMsg := devMessage
	if err != nil && err.Error() != devMessage {
		devMsg = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMsg,
		Locations:     getLocations(2),
		Err:           err,
	}
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     getLocations(2),
	}
}

func getLocations(skip int) []Location {
	pcs := make([]uintptr, 4)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return []Location{{
			File:         constvars.ResponseUnknown,
			FunctionName: constvars.ResponseUnknown,
		}}
	}

	frames := runtime.CallersFrames(pcs[:n])
	locations := make([]Location, 0, n)
	for {
		frame, more := frames.Next()
		locations = append(locations, Location{
			File:         frame.File,
			Line:         frame.Line,
			FunctionName: frame.Function,
		})
		if !more {
			break
		}
	}
	return locations
}
