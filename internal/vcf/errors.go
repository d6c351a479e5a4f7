package vcf

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the input path does not exist
	ErrFileNotFound = errors.New("vcf file not found")

	// ErrFormat matches every *FormatError via errors.Is
	ErrFormat = errors.New("invalid vcf format")
)

// FormatError reports a missing or unusable header line
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrFormat, e.Path, e.Reason)
}

// Is lets errors.Is(err, ErrFormat) match
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
