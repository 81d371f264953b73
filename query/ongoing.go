package query

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"main/entity"
)

// GetOngoing returns the in-progress activity, or nil when none is running.
func (db *Database) GetOngoing() (*entity.Ongoing, error) {
	var row struct {
		ActivityID string `db:"activity_id"`
		StartTime  string `db:"start_time"`
	}
	err := db.Get(&row, `SELECT activity_id, start_time FROM ongoing LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetOngoing: %w", err)
	}
	start, err := time.Parse(time.RFC3339Nano, row.StartTime)
	if err != nil {
		return nil, fmt.Errorf("GetOngoing: %w", err)
	}
	return &entity.Ongoing{ActivityID: row.ActivityID, Start: start}, nil
}

// SetOngoing replaces the in-progress activity. The table holds at most one
// row; the recorder is the only writer.
func (db *Database) SetOngoing(o entity.Ongoing) error {
	tx := db.MustBegin()
	if _, err := tx.Exec(`DELETE FROM ongoing`); err != nil {
		tx.Rollback()
		return fmt.Errorf("SetOngoing: %w", err)
	}
	_, err := tx.Exec(`INSERT INTO ongoing (activity_id, start_time) VALUES (?, ?)`,
		o.ActivityID, o.Start.Format(time.RFC3339Nano))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("SetOngoing: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SetOngoing: error at commit: %w", err)
	}
	return nil
}

func (db *Database) ClearOngoing() error {
	_, err := db.Exec(`DELETE FROM ongoing`)
	if err != nil {
		return fmt.Errorf("ClearOngoing: %w", err)
	}
	return nil
}
