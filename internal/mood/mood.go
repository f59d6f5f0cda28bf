// Package mood turns raw mood records into one representative point per
// calendar day for trend charts.
//
// The representative mood of a day is the symbol recorded most often that
// day. A tie on count goes to the symbol with the higher intensity, and a tie
// on both goes to whichever of the tied symbols was recorded first that day.
package mood

import (
	"sort"
	"time"

	"github.com/sakif/whisper/internal/model"
)

// DateLayout is the calendar-day key format shared with tasks and answers.
const DateLayout = "2006-01-02"

// Neutral is the intensity of any symbol missing from the table.
const Neutral = 3

var intensities = map[string]int{
	"😢": 1,
	"🥺": 1,
	"😰": 2,
	"😠": 2,
	"😐": 3,
	"🤔": 3,
	"😴": 3,
	"😌": 4,
	"😊": 5,
	"🤗": 5,
	"😍": 5,
}

// Intensity maps a mood symbol to its 1..5 chart value.
func Intensity(symbol string) int {
	if v, ok := intensities[symbol]; ok {
		return v
	}
	return Neutral
}

// Point is one day of a trend series.
type Point struct {
	Date  string `json:"date"`
	Mood  string `json:"mood"`
	Value int    `json:"value"`
}

// DayKey returns the calendar day of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

type tally struct {
	mood  string
	count int
}

// Aggregate reduces records to one Point per distinct day, ascending by date.
// Days without records are not filled in. The input slice is not modified.
func Aggregate(records []model.MoodRecord) []Point {
	if len(records) == 0 {
		return []Point{}
	}

	ordered := make([]model.MoodRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	// per day: tallies in first-seen order
	days := make(map[string][]tally)
	for _, r := range ordered {
		key := DayKey(r.Timestamp)
		tallies := days[key]
		found := false
		for i := range tallies {
			if tallies[i].mood == r.Mood {
				tallies[i].count++
				found = true
				break
			}
		}
		if !found {
			tallies = append(tallies, tally{mood: r.Mood, count: 1})
		}
		days[key] = tallies
	}

	points := make([]Point, 0, len(days))
	for date, tallies := range days {
		best := tallies[0]
		for _, t := range tallies[1:] {
			if t.count > best.count ||
				(t.count == best.count && Intensity(t.mood) > Intensity(best.mood)) {
				best = t
			}
		}
		points = append(points, Point{
			Date:  date,
			Mood:  best.mood,
			Value: Intensity(best.mood),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// Since keeps the points dated on or after cutoff (a DateLayout key).
func Since(points []Point, cutoff string) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Date >= cutoff {
			out = append(out, p)
		}
	}
	return out
}
