package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks unusable configuration, such as a source naming an
	// unregistered scraper or parser.
	ErrConfiguration = errors.New("configuration error")
	// ErrFetch marks a remote index that returned a non-success response or
	// produced no usable content.
	ErrFetch = errors.New("fetch error")
	// ErrCredential marks missing or rejected stored credentials.
	ErrCredential = errors.New("credential error")
	// ErrParse marks adapter input that could not be interpreted.
	ErrParse = errors.New("parse error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker so callers can classify it with errors.Is. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFetch
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification label for err, suitable for logging.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrCredential):
		return "credential"
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrParse):
		return "parse"
	default:
		return "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "adapter failure"
	}
	return strings.Join(parts, ": ")
}
