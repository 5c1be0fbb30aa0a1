package errors

import "fmt"

type Kind string

const (
	InvalidConfig Kind = "invalid_config"
	AccessDenied  Kind = "access_denied"
	Cancelled     Kind = "cancelled"
	DecodeFailure Kind = "decode_failure"
	EncodeFailure Kind = "encode_failure"
	IOFailure     Kind = "io_failure"
	Internal      Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Kind == kind
}

func UserMessage(err error) string {
	appErr, ok := err.(*AppError)
	if !ok {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case AccessDenied:
		return fmt.Sprintf("Access denied: %s", appErr.Path)
	case Cancelled:
		return "Cancelled"
	case DecodeFailure:
		return fmt.Sprintf("Could not decode image: %s", appErr.Path)
	case EncodeFailure:
		return fmt.Sprintf("Could not encode image: %s", appErr.Path)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Path)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
