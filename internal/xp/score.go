package xp

import (
	"math"
	"time"
)

// Event categories recognised by the scoring table. Anything else is scored
// as a workshop.
const (
	EventTypeTalkSeminar = "talk_seminar"
	EventTypeWorkshop    = "workshop"
	EventTypeHackathon   = "hackathon"
	EventTypeCompetition = "competition"
)

const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
	DifficultyElite    = "elite"
)

// ===========================
// 🧮 XP Scoring
//
// Score computes the XP awarded for one verified attendance. It is a pure
// function of the event metadata so it can be unit tested in isolation.
func Score(eventType, difficulty string, start, end time.Time, isMultiDay bool) int {
	base := baseXP(eventType)
	duration := durationMultiplier(start, end, isMultiDay)
	diff := difficultyMultiplier(difficulty)

	// round half-up to the nearest whole XP
	return int(math.Floor(float64(base)*duration*diff + 0.5))
}

func baseXP(eventType string) int {
	switch eventType {
	case EventTypeTalkSeminar:
		return 50
	case EventTypeHackathon:
		return 150
	case EventTypeCompetition:
		return 100
	default:
		// workshop, and any unrecognised type
		return 80
	}
}

func durationMultiplier(start, end time.Time, isMultiDay bool) float64 {
	if isMultiDay || !sameCalendarDay(start, end) {
		return 3.0
	}

	hours := end.Sub(start).Hours()
	switch {
	case hours <= 1:
		return 1.0
	case hours <= 2:
		return 1.2
	case hours <= 4:
		return 1.5
	case hours <= 24:
		return 2.0
	default:
		return 3.0
	}
}

func difficultyMultiplier(difficulty string) float64 {
	switch difficulty {
	case DifficultyModerate:
		return 1.3
	case DifficultyHard:
		return 1.6
	case DifficultyElite:
		return 2.0
	default:
		return 1.0
	}
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
