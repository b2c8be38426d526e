package trial

import (
	"math"
	"time"
)

// ScaleCount is the number of semantic differential scales per stimulus.
const ScaleCount = 8

// MaxRating is the upper bound of a rating; the lower bound is zero.
const MaxRating = 100

// Rating is one scale answer. Set stays false until the participant moves the
// scale's slider.
type Rating struct {
	Value int
	Set   bool
}

// RatingFromSlider maps a normalized slider position in [0, 1] to [0, 100].
// Out-of-range positions are clamped; NaN yields ok=false.
func RatingFromSlider(position float64) (Rating, bool) {
	if math.IsNaN(position) {
		return Rating{}, false
	}
	position = math.Max(0, math.Min(1, position))
	return Rating{Value: int(math.Round(position * MaxRating)), Set: true}, true
}

// Ratings holds the answers for all scales, indexed from zero.
type Ratings [ScaleCount]Rating

// Complete reports whether every scale has been answered.
func (r Ratings) Complete() bool {
	return r.Answered() == ScaleCount
}

// Answered counts the scales with a value.
func (r Ratings) Answered() int {
	n := 0
	for _, rating := range r {
		if rating.Set {
			n++
		}
	}
	return n
}

// Record is the outcome of one trial.
type Record struct {
	StimulusIndex int
	Ratings       Ratings
	Listened      bool
	Elapsed       time.Duration
}

// Complete reports whether the record satisfies the submission gate.
func (r Record) Complete() bool {
	return r.Listened && r.Ratings.Complete()
}
