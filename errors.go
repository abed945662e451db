// Package reproject reprojects gridded geoscientific data from one
// horizontal coordinate system to another.
//
// It wraps an underlying [reader.Dataset] and presents a transformed view:
// when a caller requests a horizontal 2D slice of a variable, the
// interpolator fetches the source slice, resamples it onto the configured
// output grid, and — for vector fields — rotates the components into the
// new coordinate frame.
//
// Basic usage:
//
//	interp := reproject.NewInterpolator(dataset)
//	err := interp.ChangeProjection(reproject.MethodBilinear, "+proj=stere +lat_0=90 +lon_0=0 +R=6371000",
//	    reproject.AxisSpec{Values: xs}, reproject.AxisSpec{Values: ys}, "m", "m",
//	    reader.Float64, reader.Float64)
//	slice, err := interp.GetDataSlice("air_temperature", 0)
//
// Configuration knobs (coordinate names, search radius, worker count) are
// set with functional options on NewInterpolator, in the style of this
// module's WithWorkers/WithFilter ancestor.
package reproject

import "fmt"

// Kind classifies the error conditions a reprojection configuration or
// read can raise. All errors returned by this package are of type *Error
// so a caller can type-switch on Kind without parsing messages.
type Kind int

const (
	// NoCoordinateSystem indicates the source dataset exposes no usable
	// horizontal coordinate system for the requested method family.
	NoCoordinateSystem Kind = iota
	// ProjectionFailure indicates the projection collaborator returned
	// a non-OK result (unparsable proj string, point outside domain, ...).
	ProjectionFailure
	// UnsupportedMethod indicates a request the engine cannot serve:
	// axis auto-bounding against an angular destination projection, or a
	// read before any ChangeProjection call.
	UnsupportedMethod
	// ShapeMismatch indicates a variable's shape or a vector's direction
	// could not be resolved (e.g. a 1D lat/lon where 2D was required).
	ShapeMismatch
	// ReaderFailure wraps an error returned by the underlying dataset
	// reader.
	ReaderFailure
	// UnknownMethod indicates a method tag the engine does not recognize.
	UnknownMethod
)

func (k Kind) String() string {
	switch k {
	case NoCoordinateSystem:
		return "NoCoordinateSystem"
	case ProjectionFailure:
		return "ProjectionFailure"
	case UnsupportedMethod:
		return "UnsupportedMethod"
	case ShapeMismatch:
		return "ShapeMismatch"
	case ReaderFailure:
		return "ReaderFailure"
	case UnknownMethod:
		return "UnknownMethod"
	default:
		return "Unknown"
	}
}

// Error is the single domain exception type this package returns (spec §6,
// §7): every configuration-time or read-time failure surfaces as *Error
// carrying a human-readable message and a Kind for programmatic handling.
type Error struct {
	Kind       Kind
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, if any, so errors.Is/errors.As work.
func (e *Error) Unwrap() error {
	return e.Underlying
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, underlying error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Underlying: underlying}
}
