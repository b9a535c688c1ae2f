package engine

import (
	"github.com/retiresim/retirecast/internal/domain"
)

// Recorder accumulates the run's structured output. It computes no
// financial value of its own: every number it holds was produced by a
// module and recorded here verbatim. Entries are append-only, one per month
// index, contiguous and zero-based.
type Recorder struct {
	result domain.Result
}

// NewRecorder returns an empty recorder. The slices start allocated so a
// zero-month run serializes as empty arrays, not null.
func NewRecorder() *Recorder {
	return &Recorder{
		result: domain.Result{
			Timeline:        []domain.TimelinePoint{},
			MonthlyTimeline: []domain.MonthlyTimelinePoint{},
			Explanations:    []domain.MonthExplanation{},
		},
	}
}

// RecordMonth appends one month's transcript and timeline point.
func (r *Recorder) RecordMonth(explanation domain.MonthExplanation, point domain.MonthlyTimelinePoint) {
	r.result.Explanations = append(r.result.Explanations, explanation)
	r.result.MonthlyTimeline = append(r.result.MonthlyTimeline, point)
}

// RecordYear appends one closed year's timeline point.
func (r *Recorder) RecordYear(point domain.TimelinePoint) {
	r.result.Timeline = append(r.result.Timeline, point)
}

// Result returns the accumulated output.
func (r *Recorder) Result() *domain.Result {
	res := r.result
	return &res
}
