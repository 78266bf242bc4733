package subtitle

import (
	"errors"
	"fmt"
)

// ErrInvalidSubtitle is wrapped by every validation failure.
var ErrInvalidSubtitle = errors.New("invalid subtitle file")

// InvalidSubtitleError explains why a subtitle file was rejected.
type InvalidSubtitleError struct {
	Path   string
	Reason string
}

func (e *InvalidSubtitleError) Error() string {
	return fmt.Sprintf("invalid subtitle file %s: %s", e.Path, e.Reason)
}

func (e *InvalidSubtitleError) Unwrap() error {
	return ErrInvalidSubtitle
}

func invalid(path, format string, args ...any) error {
	return &InvalidSubtitleError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func errMalformedTiming(line string) error {
	return fmt.Errorf("malformed timing line %q", line)
}
