package service

import "time"

// CalculateStreak returns the number of consecutive calendar days with
// at least one completion, ending at the most recent completion's day.
// completions must be sorted descending by timestamp. Multiple
// completions on the same day count once; a gap of more than one day
// ends the streak.
func CalculateStreak(completions []time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	streak := 1
	cursor := dateOf(completions[0])
	for _, c := range completions[1:] {
		day := dateOf(c)
		diff := int(cursor.Sub(day) / (24 * time.Hour))
		switch {
		case diff == 1:
			streak++
			cursor = day
		case diff > 1:
			return streak
		}
		// diff == 0: another completion on an already-counted day
	}
	return streak
}

// dateOf evaluates t's calendar day in server-local time, the same
// frame the task day filter uses, then projects it onto UTC midnight so
// day arithmetic is exact multiples of 24h.
func dateOf(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
