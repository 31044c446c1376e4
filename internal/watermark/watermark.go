// Package watermark derives the next fetch start date for a (dataset, code)
// series and decides whether that start is worth fetching right now.
// Grounded on need_to_start in the original syncer module.
package watermark

import "time"

// DefaultStartDate is the cold-start lower bound for a series with no
// persisted watermark.
const DefaultStartDate = "2010-01-01"

// NextFunc advances a date to the next cached trade date; satisfied by
// cache.ReferenceCache.NextTradeDate.
type NextFunc func(time.Time) time.Time

// Start derives the next fetch start date: if latest is present, the day
// after it per the trade-date cache; otherwise DefaultStartDate.
func Start(latest *time.Time, next NextFunc) time.Time {
	if latest == nil {
		d, _ := time.Parse("2006-01-02", DefaultStartDate)
		return d
	}
	return next(*latest)
}

// NeedToStart reports whether a fetch beginning at start is worth issuing
// given the current wall-clock time now. The market closes at 15:00; a
// start date equal to today is only trusted once the clock reads past
// 15:05, since the closing daily bar needs a few minutes to settle
// upstream. A start date in the future never needs fetching.
func NeedToStart(start, now time.Time) bool {
	startDay := truncateDay(start)
	today := truncateDay(now)

	if startDay.After(today) {
		return false
	}
	if startDay.Equal(today) {
		hour, min := now.Hour(), now.Minute()
		if hour < 15 {
			return false
		}
		if hour == 15 && min <= 5 {
			return false
		}
		return true
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
