package trial

import (
	"math"
	"testing"
)

func TestRatingFromSlider(t *testing.T) {
	tests := []struct {
		name     string
		position float64
		want     int
	}{
		{name: "left end", position: 0, want: 0},
		{name: "right end", position: 1, want: 100},
		{name: "midpoint", position: 0.5, want: 50},
		{name: "rounds down", position: 0.333, want: 33},
		{name: "rounds up", position: 0.996, want: 100},
		{name: "clamps below", position: -0.2, want: 0},
		{name: "clamps above", position: 1.7, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, ok := RatingFromSlider(tt.position)
			if !ok {
				t.Fatalf("expected position %v to be accepted", tt.position)
			}
			if !rating.Set || rating.Value != tt.want {
				t.Fatalf("got %+v, want value %d", rating, tt.want)
			}
		})
	}
}

func TestRatingFromSliderRejectsNaN(t *testing.T) {
	if _, ok := RatingFromSlider(math.NaN()); ok {
		t.Fatal("expected NaN to be rejected")
	}
}

func TestRecordComplete(t *testing.T) {
	var rec Record
	for i := range ScaleCount - 1 {
		rec.Ratings[i] = Rating{Value: 10, Set: true}
	}
	rec.Listened = true
	if rec.Complete() {
		t.Fatal("seven of eight answers must not be complete")
	}
	if got := rec.Ratings.Answered(); got != ScaleCount-1 {
		t.Fatalf("answered = %d, want %d", got, ScaleCount-1)
	}
	rec.Ratings[ScaleCount-1] = Rating{Value: 0, Set: true}
	if !rec.Complete() {
		t.Fatal("expected record with zero rating and full listen to be complete")
	}
	rec.Listened = false
	if rec.Complete() {
		t.Fatal("record without a full listen must not be complete")
	}
}
