package model

import "time"

// TimeWindow is a pair of instants. Phase derivation treats it as closed-open
// [Start, End); conflict detection between event windows treats both ends as
// inclusive, so a back-to-back boundary touch counts as an overlap.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return !w.Start.After(other.End) && !other.Start.After(w.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
