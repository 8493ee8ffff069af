package icons

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is returned when the source image path does not exist.
var ErrSourceNotFound = errors.New("source image not found")

// Processing stages reported by ProcessingError.
const (
	StageDecode = "decode"
	StageResize = "resize"
	StageEncode = "encode"
	StageWrite  = "write"
)

// ProcessingError is any failure after the source was found: decoding,
// resizing, encoding or writing an icon.
type ProcessingError struct {
	Stage string
	Path  string
	Err   error
}

func (e *ProcessingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
