package stats

import (
	"sort"
	"time"

	"main/entity"
)

// gapToleranceMin suppresses spurious hair-width idle blocks caused by
// instant-to-minute rounding. Kept at the upstream value.
const gapToleranceMin = 0.5

// TimeBlocks partitions one calendar day into an ordered, gap-free sequence of
// blocks covering all 1440 minutes. Gaps between records become idle blocks,
// and for today the unelapsed remainder becomes a single future block. A day
// strictly after now is entirely future. Records are clipped to the day and to
// now; an open record runs to now (today) or to the end of the day (past).
func TimeBlocks(records []entity.ActivityRecord, activities []entity.Activity, date string, now time.Time, loc *time.Location) ([]entity.TimeBlock, error) {
	dayStart, dayEnd, err := DayBounds(date, loc)
	if err != nil {
		return nil, err
	}
	isToday := !now.Before(dayStart) && !now.After(dayEnd)

	if now.Before(dayStart) {
		return []entity.TimeBlock{futureBlock(0)}, nil
	}

	effectiveNow := float64(MinutesPerDay)
	if isToday {
		effectiveNow = min(effectiveNow, now.Sub(dayStart).Minutes())
	}

	byID := activityMap(activities)

	sorted := make([]entity.ActivityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var blocks []entity.TimeBlock
	cursor := 0.0

	for _, r := range sorted {
		start := r.Start
		if start.Before(dayStart) {
			start = dayStart
		}
		var end time.Time
		if r.Open() {
			if isToday {
				end = now
			} else {
				end = dayEnd
			}
		} else {
			// The day ends at 23:59:59.999; let a record closed exactly
			// at the boundary reach the full 1440th minute.
			end = *r.End
			if limit := dayEnd.Add(time.Millisecond); end.After(limit) {
				end = limit
			}
		}
		if !end.After(start) {
			continue
		}

		startMin := max(0, start.Sub(dayStart).Minutes())
		endMin := min(effectiveNow, end.Sub(dayStart).Minutes())
		if endMin <= startMin {
			continue
		}

		if startMin > cursor+gapToleranceMin {
			blocks = append(blocks, idleBlock(cursor, startMin))
		}

		blockStart := max(startMin, cursor)
		// Back-to-back segments of the same activity extend the previous
		// block rather than appearing as two slivers.
		if n := len(blocks); n > 0 && blocks[n-1].Kind == entity.KindActivity &&
			blocks[n-1].ActivityID == r.ActivityID && blockStart <= blocks[n-1].EndMin {
			if endMin > blocks[n-1].EndMin {
				blocks[n-1].EndMin = endMin
				blocks[n-1].Minutes = endMin - blocks[n-1].StartMin
			}
			cursor = max(cursor, endMin)
			continue
		}

		name, color := displayFor(entryKey{kind: entity.KindActivity, id: r.ActivityID}, byID)
		blocks = append(blocks, entity.TimeBlock{
			Kind:       entity.KindActivity,
			ActivityID: r.ActivityID,
			Name:       name,
			Color:      color,
			StartMin:   blockStart,
			EndMin:     endMin,
			Minutes:    endMin - blockStart,
		})
		cursor = endMin
	}

	if cursor < effectiveNow-gapToleranceMin {
		blocks = append(blocks, idleBlock(cursor, effectiveNow))
		cursor = effectiveNow
	}

	if final := max(cursor, effectiveNow); isToday && final < MinutesPerDay {
		blocks = append(blocks, futureBlock(final))
	}

	return blocks, nil
}

func idleBlock(startMin, endMin float64) entity.TimeBlock {
	return entity.TimeBlock{
		Kind:     entity.KindIdle,
		Name:     entity.IdleName,
		Color:    entity.IdleColor,
		StartMin: startMin,
		EndMin:   endMin,
		Minutes:  endMin - startMin,
	}
}

func futureBlock(startMin float64) entity.TimeBlock {
	return entity.TimeBlock{
		Kind:     entity.KindFuture,
		Name:     entity.FutureName,
		Color:    entity.FutureColor,
		StartMin: startMin,
		EndMin:   MinutesPerDay,
		Minutes:  MinutesPerDay - startMin,
	}
}
