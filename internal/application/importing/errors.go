package importing

import "errors"

var (
	ErrNoFile              = errors.New("no file provided")
	ErrMappingMissingEmail = errors.New("email field mapping is required")
	ErrMappingMissingName  = errors.New("full_name field mapping is required")
	ErrBadDecisions        = errors.New("invalid duplicate decisions")
	ErrAnalyzeFile         = errors.New("failed to analyze file")
	ErrExecuteImport       = errors.New("import execution failed")
)
