package mood

import (
	"testing"
	"time"

	"github.com/sakif/whisper/internal/model"
)

func at(t *testing.T, ts string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("parsing %q: %v", ts, err)
	}
	return parsed
}

func rec(t *testing.T, mood, ts string) model.MoodRecord {
	t.Helper()
	return model.MoodRecord{Mood: mood, Timestamp: at(t, ts)}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		symbol string
		want   int
	}{
		{"😢", 1},
		{"😰", 2},
		{"😐", 3},
		{"😌", 4},
		{"😊", 5},
		{"🦄", Neutral},
		{"", Neutral},
	}
	for _, tt := range tests {
		if got := Intensity(tt.symbol); got != tt.want {
			t.Errorf("Intensity(%q) = %d, want %d", tt.symbol, got, tt.want)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil)
	if got == nil {
		t.Fatal("Aggregate(nil) returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("Aggregate(nil) returned %d points, want 0", len(got))
	}
}

func TestAggregate_SingleRecord(t *testing.T) {
	got := Aggregate([]model.MoodRecord{rec(t, "😐", "2024-03-05T10:00:00Z")})
	want := Point{Date: "2024-03-05", Mood: "😐", Value: 3}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Aggregate() = %+v, want [%+v]", got, want)
	}
}

func TestAggregate_MostFrequentWins(t *testing.T) {
	got := Aggregate([]model.MoodRecord{
		rec(t, "😊", "2024-03-05T08:00:00Z"),
		rec(t, "😢", "2024-03-05T09:00:00Z"),
		rec(t, "😊", "2024-03-05T10:00:00Z"),
	})
	if len(got) != 1 {
		t.Fatalf("got %d points, want 1", len(got))
	}
	if got[0].Mood != "😊" {
		t.Errorf("Mood = %q, want 😊", got[0].Mood)
	}

	// frequency beats intensity
	got = Aggregate([]model.MoodRecord{
		rec(t, "😢", "2024-03-05T08:00:00Z"),
		rec(t, "😊", "2024-03-05T09:00:00Z"),
		rec(t, "😢", "2024-03-05T10:00:00Z"),
	})
	if got[0].Mood != "😢" || got[0].Value != 1 {
		t.Errorf("got %+v, want 😢 with value 1", got[0])
	}
}

func TestAggregate_TieGoesToHigherIntensity(t *testing.T) {
	for _, order := range [][2]string{{"😊", "😢"}, {"😢", "😊"}} {
		got := Aggregate([]model.MoodRecord{
			rec(t, order[0], "2024-03-05T08:00:00Z"),
			rec(t, order[1], "2024-03-05T09:00:00Z"),
		})
		if got[0].Mood != "😊" || got[0].Value != 5 {
			t.Errorf("order %v: got %+v, want 😊 with value 5", order, got[0])
		}
	}
}

func TestAggregate_FullTieGoesToFirstRecorded(t *testing.T) {
	// 😰 and 😠 share intensity 2; input order is reversed on purpose
	got := Aggregate([]model.MoodRecord{
		rec(t, "😠", "2024-03-05T12:00:00Z"),
		rec(t, "😰", "2024-03-05T07:00:00Z"),
	})
	if got[0].Mood != "😰" {
		t.Errorf("Mood = %q, want 😰 (recorded first)", got[0].Mood)
	}
}

func TestAggregate_UnknownSymbolKeptVerbatim(t *testing.T) {
	got := Aggregate([]model.MoodRecord{rec(t, "🦄", "2024-03-05T08:00:00Z")})
	if got[0].Mood != "🦄" || got[0].Value != Neutral {
		t.Errorf("got %+v, want 🦄 with neutral value", got[0])
	}
}

func TestAggregate_OnePointPerDayAscending(t *testing.T) {
	records := []model.MoodRecord{
		rec(t, "😊", "2024-03-07T08:00:00Z"),
		rec(t, "😢", "2024-03-05T08:00:00Z"),
		rec(t, "😐", "2024-03-06T23:59:59Z"),
		rec(t, "😐", "2024-03-05T20:00:00Z"),
		rec(t, "😌", "2023-12-31T08:00:00Z"),
		rec(t, "😊", "2024-03-07T09:00:00Z"),
	}

	got := Aggregate(records)

	wantDates := []string{"2023-12-31", "2024-03-05", "2024-03-06", "2024-03-07"}
	if len(got) != len(wantDates) {
		t.Fatalf("got %d points, want %d", len(got), len(wantDates))
	}
	for i, d := range wantDates {
		if got[i].Date != d {
			t.Errorf("point %d date = %q, want %q", i, got[i].Date, d)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Date >= got[i].Date {
			t.Errorf("points not strictly ascending at %d: %q >= %q", i, got[i-1].Date, got[i].Date)
		}
	}

	// the input must be left untouched
	if records[0].Mood != "😊" || records[1].Mood != "😢" {
		t.Error("Aggregate() reordered its input")
	}
}

func TestAggregate_DayTakenFromEncodedZone(t *testing.T) {
	// 23:30 at +07:00 is 16:30 UTC the same day; 01:00 at +07:00 is the
	// previous day in UTC but must stay on its literal date.
	got := Aggregate([]model.MoodRecord{
		rec(t, "😊", "2024-03-05T23:30:00+07:00"),
		rec(t, "😢", "2024-03-06T01:00:00+07:00"),
	})
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2: %+v", len(got), got)
	}
	if got[0].Date != "2024-03-05" || got[1].Date != "2024-03-06" {
		t.Errorf("dates = %q, %q; want 2024-03-05, 2024-03-06", got[0].Date, got[1].Date)
	}
}

func TestSince(t *testing.T) {
	points := []Point{
		{Date: "2024-02-28", Mood: "😐", Value: 3},
		{Date: "2024-03-01", Mood: "😊", Value: 5},
		{Date: "2024-03-04", Mood: "😢", Value: 1},
	}

	got := Since(points, "2024-03-01")
	if len(got) != 2 || got[0].Date != "2024-03-01" {
		t.Errorf("Since() = %+v, want the last two points", got)
	}
	if got := Since(points, "2025-01-01"); len(got) != 0 {
		t.Errorf("Since(future) = %+v, want empty", got)
	}
}
