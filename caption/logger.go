package caption

import "github.com/rs/zerolog"

// logger defaults to a no-op sink; callers that want parsing diagnostics
// wire in their own zerolog.Logger via SetLogger.
var logger = zerolog.Nop()

// SetLogger replaces the package-level logger used for diagnostics that
// fall outside the per-Result LogRecord contract (currently only the
// pending-segment cache dropping its oldest entry). It does not affect
// LogRecords returned from Parse.
func SetLogger(l zerolog.Logger) {
	logger = l
}
