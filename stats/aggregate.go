package stats

import (
	"sort"
	"time"

	"main/entity"
)

type entryKey struct {
	kind entity.Kind
	id   string
}

// activityMap indexes a catalog by id.
func activityMap(activities []entity.Activity) map[string]entity.Activity {
	m := make(map[string]entity.Activity, len(activities))
	for _, a := range activities {
		m[a.ID] = a
	}
	return m
}

func displayFor(key entryKey, byID map[string]entity.Activity) (name, color string) {
	switch key.kind {
	case entity.KindIdle:
		return entity.IdleName, entity.IdleColor
	case entity.KindFuture:
		return entity.FutureName, entity.FutureColor
	}
	if a, ok := byID[key.id]; ok {
		return a.Name, a.Color
	}
	// Deleted or never-known activity: degrade, don't fail.
	return entity.UnknownName, entity.UnknownColor
}

func buildSummary(minutes map[entryKey]float64, byID map[string]entity.Activity) []entity.SummaryEntry {
	var total float64
	for _, m := range minutes {
		total += m
	}
	entries := make([]entity.SummaryEntry, 0, len(minutes))
	for key, m := range minutes {
		name, color := displayFor(key, byID)
		e := entity.SummaryEntry{
			Kind:       key.kind,
			ActivityID: key.id,
			Name:       name,
			Color:      color,
			Minutes:    m,
		}
		if total > 0 {
			e.Percent = m / total * 100
		}
		entries = append(entries, e)
	}
	sortSummary(entries)
	return entries
}

// sortSummary orders entries by minutes descending with the idle entry forced
// last regardless of its size.
func sortSummary(entries []entity.SummaryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Kind == entity.KindIdle {
			return false
		}
		if entries[j].Kind == entity.KindIdle {
			return true
		}
		return entries[i].Minutes > entries[j].Minutes
	})
}

// AggregateDay aggregates one day's records into a per-activity breakdown that
// always sums to the day's elapsed duration: 1440 minutes for a past day, the
// minutes elapsed since midnight for today. Unrecorded elapsed time is emitted
// as a trailing idle entry. Records are re-clipped to the day's bounds; an
// open record ends at min(now, day end). A day strictly in the future yields
// an empty breakdown.
func AggregateDay(records []entity.ActivityRecord, activities []entity.Activity, date string, now time.Time, loc *time.Location) ([]entity.SummaryEntry, error) {
	dayStart, dayEnd, err := DayBounds(date, loc)
	if err != nil {
		return nil, err
	}

	minutes := make(map[entryKey]float64)
	for _, r := range records {
		start := r.Start
		if start.Before(dayStart) {
			start = dayStart
		}
		// An open record ends "now"; either way nothing past the day counts.
		end := r.EndOr(now)
		if end.After(dayEnd) {
			end = dayEnd
		}
		if !end.After(start) {
			continue
		}
		key := entryKey{kind: entity.KindActivity, id: r.ActivityID}
		minutes[key] += end.Sub(start).Minutes()
	}

	// The denominator for an unfinished day is the time elapsed so far; a
	// finished day always accounts for the full 1440 minutes.
	available := float64(MinutesPerDay)
	if now.Before(dayEnd) {
		available = now.Sub(dayStart).Minutes()
	}

	var recorded float64
	for _, m := range minutes {
		recorded += m
	}
	if idle := available - recorded; idle > 0 {
		minutes[entryKey{kind: entity.KindIdle}] = idle
	}

	return buildSummary(minutes, activityMap(activities)), nil
}

// AggregateRange folds AggregateDay over every day in [startDate, endDate] and
// merges the per-day totals into one breakdown. Records are routed to days by
// their Date field; days with no records still contribute idle time.
// Percentages are recomputed from the merged totals.
func AggregateRange(records []entity.ActivityRecord, activities []entity.Activity, startDate, endDate string, now time.Time, loc *time.Location) ([]entity.SummaryEntry, error) {
	dates, err := DateRange(startDate, endDate, loc)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]entity.ActivityRecord)
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	minutes := make(map[entryKey]float64)
	for _, date := range dates {
		day, err := AggregateDay(byDate[date], activities, date, now, loc)
		if err != nil {
			return nil, err
		}
		for _, e := range day {
			minutes[entryKey{kind: e.Kind, id: e.ActivityID}] += e.Minutes
		}
	}

	return buildSummary(minutes, activityMap(activities)), nil
}
