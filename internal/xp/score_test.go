package xp

import (
	"testing"
	"time"
)

func day(hour int) time.Time {
	return time.Date(2025, 3, 10, hour, 0, 0, 0, time.UTC)
}

func TestScoreTable(t *testing.T) {
	nextDay := time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		eventType  string
		difficulty string
		start, end time.Time
		multiDay   bool
		want       int
	}{
		{"workshop easy 1h", EventTypeWorkshop, DifficultyEasy, day(10), day(11), false, 80},
		{"hackathon elite multi-day", EventTypeHackathon, DifficultyElite, day(9), nextDay, true, 900},
		{"competition hard 3h", EventTypeCompetition, DifficultyHard, day(10), day(13), false, 240},
		{"talk moderate 8h same day", EventTypeTalkSeminar, DifficultyModerate, day(9), day(17), false, 130},
		{"hackathon hard multi-day", EventTypeHackathon, DifficultyHard, day(9), nextDay, true, 720},
		{"unknown type falls back to workshop", "quiz", DifficultyEasy, day(10), day(11), false, 80},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.eventType, tc.difficulty, tc.start, tc.end, tc.multiDay)
			if got != tc.want {
				t.Errorf("Score() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreDurationBoundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  float64
	}{
		{1, 1.0},
		{1.5, 1.2},
		{2, 1.2},
		{3, 1.5},
		{4, 1.5},
		{5, 2.0},
	}

	for _, tc := range cases {
		start := day(0)
		end := start.Add(time.Duration(tc.hours * float64(time.Hour)))
		got := Score(EventTypeCompetition, DifficultyEasy, start, end, false)
		want := int(100*tc.want + 0.5)
		if got != want {
			t.Errorf("hours=%v: Score() = %d, want %d", tc.hours, got, want)
		}
	}
}

func TestScoreCrossMidnightIsMultiDay(t *testing.T) {
	// 2h elapsed, but dates differ, so the multi-day multiplier applies
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)

	got := Score(EventTypeTalkSeminar, DifficultyEasy, start, end, false)
	if got != 150 {
		t.Errorf("Score() = %d, want 150", got)
	}
}
