package importing

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrDecode            = errors.New("unable to decode file")
	ErrEmptyFile         = errors.New("file contains no data rows")
	ErrNoValidColumns    = errors.New("no valid columns after cleaning")

	ErrSessionNotFound  = errors.New("import session not found")
	ErrForbidden        = errors.New("access denied to import session")
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrSessionFinished  = errors.New("import session already finished")
	ErrTemplateNotFound = errors.New("mapping template not found")

	ErrUnknownDecision = errors.New("unknown duplicate decision")
)
