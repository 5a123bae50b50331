package httpparse

import "github.com/stephendliang/http11opt/httperr"

// ConfigDefault mirrors the handle-based API's config_default: it returns
// a fresh set of defaults, safe to mutate before passing to New.
func ConfigDefault() *Config { return Default() }

// ErrorName returns the enum-style name of a latched error's code, e.g.
// "MISSING_HOST".
func ErrorName(e *httperr.Error) string { return httperr.Name(e.Code) }

// ErrorMessage returns a human-readable description of a latched error.
func ErrorMessage(e *httperr.Error) string { return httperr.Message(e.Code) }
