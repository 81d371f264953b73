// Package recorder owns the start/stop lifecycle of the single in-progress
// activity. It is the only writer of the ongoing state, which is how the rest
// of the system can assume at most one open interval exists.
package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"main/entity"
	"main/query"
	"main/stats"
)

type Recorder struct {
	db    *query.Database
	loc   *time.Location
	now   func() time.Time
	mutex sync.Mutex
}

func New(db *query.Database, loc *time.Location) *Recorder {
	return &Recorder{db: db, loc: loc, now: time.Now}
}

// WithClock overrides the clock. The clock is sampled once per operation.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Start begins recording activityID. A running activity is stopped and
// persisted first, so starting is always valid.
func (r *Recorder) Start(activityID string) (entity.Ongoing, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, err := r.stopLocked(); err != nil {
		return entity.Ongoing{}, err
	}
	ongoing := entity.Ongoing{ActivityID: activityID, Start: r.now()}
	if err := r.db.SetOngoing(ongoing); err != nil {
		return entity.Ongoing{}, fmt.Errorf("Start: %w", err)
	}
	return ongoing, nil
}

// Stop closes the in-progress activity and persists it, split into one record
// per calendar day it spans. Returns the full closed span, or nil when
// nothing was running.
func (r *Recorder) Stop() (*entity.ActivityRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.stopLocked()
}

func (r *Recorder) stopLocked() (*entity.ActivityRecord, error) {
	ongoing, err := r.db.GetOngoing()
	if err != nil {
		return nil, err
	}
	if ongoing == nil {
		return nil, nil
	}

	now := r.now()
	for _, rec := range stats.SplitInterval(ongoing.ActivityID, ongoing.Start, now, r.loc) {
		if err := r.db.SaveRecord(rec); err != nil {
			return nil, fmt.Errorf("Stop: %w", err)
		}
	}
	if err := r.db.ClearOngoing(); err != nil {
		return nil, fmt.Errorf("Stop: %w", err)
	}

	end := now
	return &entity.ActivityRecord{
		ID:         uuid.NewString(),
		ActivityID: ongoing.ActivityID,
		Start:      ongoing.Start,
		End:        &end,
		Date:       ongoing.Start.In(r.loc).Format(stats.DateFormat),
	}, nil
}

// Current returns the in-progress activity, or nil when idle.
func (r *Recorder) Current() (*entity.Ongoing, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.GetOngoing()
}
