package query

import (
	"fmt"
	"time"

	"main/entity"
)

type recordRow struct {
	ID         string `db:"id"`
	ActivityID string `db:"activity_id"`
	StartTime  string `db:"start_time"`
	EndTime    string `db:"end_time"`
	Date       string `db:"date"`
}

func (r recordRow) toEntity() (entity.ActivityRecord, error) {
	start, err := time.Parse(time.RFC3339Nano, r.StartTime)
	if err != nil {
		return entity.ActivityRecord{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	end, err := time.Parse(time.RFC3339Nano, r.EndTime)
	if err != nil {
		return entity.ActivityRecord{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return entity.ActivityRecord{
		ID:         r.ID,
		ActivityID: r.ActivityID,
		Start:      start,
		End:        &end,
		Date:       r.Date,
	}, nil
}

func rowsToRecords(rows []recordRow) ([]entity.ActivityRecord, error) {
	records := make([]entity.ActivityRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveRecord persists one closed record. Open intervals live in the ongoing
// table, never here.
func (db *Database) SaveRecord(r entity.ActivityRecord) error {
	if r.Open() {
		return fmt.Errorf("SaveRecord: record %s has no end time", r.ID)
	}
	_, err := db.Exec(`INSERT INTO records (id, activity_id, start_time, end_time, date) VALUES (?, ?, ?, ?, ?)`,
		r.ID,
		r.ActivityID,
		r.Start.Format(time.RFC3339Nano),
		r.End.Format(time.RFC3339Nano),
		r.Date,
	)
	if err != nil {
		return fmt.Errorf("SaveRecord: %w", err)
	}
	return nil
}

// GetRecordsByDate returns all records whose calendar day is date (YYYY-MM-DD),
// ordered by start time.
func (db *Database) GetRecordsByDate(date string) ([]entity.ActivityRecord, error) {
	rows := []recordRow{}
	err := db.Select(&rows, `SELECT id, activity_id, start_time, end_time, date FROM records WHERE date = ? ORDER BY start_time`, date)
	if err != nil {
		return nil, fmt.Errorf("GetRecordsByDate: %w", err)
	}
	return rowsToRecords(rows)
}

// GetRecordsByRange returns records with date in [startDate, endDate] inclusive.
func (db *Database) GetRecordsByRange(startDate, endDate string) ([]entity.ActivityRecord, error) {
	rows := []recordRow{}
	err := db.Select(&rows, `SELECT id, activity_id, start_time, end_time, date FROM records WHERE date >= ? AND date <= ? ORDER BY start_time`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("GetRecordsByRange: %w", err)
	}
	return rowsToRecords(rows)
}

func (db *Database) DeleteRecord(id string) error {
	_, err := db.Exec(`DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("DeleteRecord: %w", err)
	}
	return nil
}

// ClearRecords removes every record and any in-progress activity.
func (db *Database) ClearRecords() error {
	if _, err := db.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("ClearRecords: %w", err)
	}
	return db.ClearOngoing()
}
