package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/ksdfg/bill-splitter/internal/ocr"
	"github.com/ksdfg/bill-splitter/internal/validation"
)

var errEmptyImage = errors.New("image is empty")

// connectError maps domain errors to Connect codes.
func connectError(err error) *connect.Error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs), errors.Is(err, ocr.ErrUnsupportedMediaType):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ocr.ErrNotConfigured):
		return connect.NewError(connect.CodeUnimplemented, err)
	case errors.Is(err, ocr.ErrExtractionFailed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
