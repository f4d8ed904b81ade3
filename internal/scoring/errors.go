package scoring

import "errors"

// Domain errors for scoring operations. Scores are served through the case
// surface, so these never reach a handler raw: callers translate them into
// their own sentinels (ErrNotFound → cases.ErrNotScored at override time).
var (
	ErrNotFound     = errors.New("risk score not found")
	ErrCaseNotFound = errors.New("case not found")
)
