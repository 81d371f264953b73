package stats

import (
	"time"

	"github.com/google/uuid"

	"main/entity"
)

// SplitInterval materializes a closed interval as one record per local
// calendar day it spans, so that every record's Date matches the day its own
// start falls on. The first record keeps the true start and the last the true
// end; days in between run midnight to 23:59:59.999. A same-day interval
// yields a single record. Returns nothing when end is not after start.
func SplitInterval(activityID string, start, end time.Time, loc *time.Location) []entity.ActivityRecord {
	if !end.After(start) {
		return nil
	}
	start = start.In(loc)
	end = end.In(loc)

	var records []entity.ActivityRecord
	cur := start
	for cur.Format(DateFormat) != end.Format(DateFormat) {
		dayEnd := time.Date(cur.Year(), cur.Month(), cur.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
		records = append(records, closedRecord(activityID, cur, dayEnd))
		cur = time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	}
	records = append(records, closedRecord(activityID, cur, end))
	return records
}

func closedRecord(activityID string, start, end time.Time) entity.ActivityRecord {
	e := end
	return entity.ActivityRecord{
		ID:         uuid.NewString(),
		ActivityID: activityID,
		Start:      start,
		End:        &e,
		Date:       start.Format(DateFormat),
	}
}
