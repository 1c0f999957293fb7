package live

import (
	"time"

	"github.com/google/uuid"

	"rune-and-ruin/graphics/animations"
)

// Report is one validation outcome as pushed to editors and kept in history.
// Source names what was validated, either a catalog file path or the label a
// client supplied with its request. Error carries failures that never reached
// validation, such as unreadable or unparseable catalog files.
type Report struct {
	ID             string            `json:"id"`
	Source         string            `json:"source"`
	Result         animations.Result `json:"result"`
	Error          string            `json:"error,omitempty"`
	GeneratedAt    int64             `json:"generatedAt"`
	DurationMillis int64             `json:"durationMillis"`
}

// NewReport stamps a validation result with a fresh id and the current time.
func NewReport(source string, result animations.Result, elapsed time.Duration) Report {
	millis := elapsed.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	return Report{
		ID:             uuid.NewString(),
		Source:         source,
		Result:         result,
		GeneratedAt:    time.Now().UnixMilli(),
		DurationMillis: millis,
	}
}

func (r Report) clone() Report {
	cloned := r
	if len(r.Result.Issues) > 0 {
		issues := make([]animations.Issue, len(r.Result.Issues))
		copy(issues, r.Result.Issues)
		for i := range issues {
			if len(issues[i].Path) > 0 {
				issues[i].Path = append(animations.Path(nil), issues[i].Path...)
			}
		}
		cloned.Result.Issues = issues
	}
	return cloned
}
