package query

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"main/entity"
)

type activityRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Color     string `db:"color"`
	Icon      string `db:"icon"`
	SortOrder int    `db:"sort_order"`
	CreatedAt string `db:"created_at"`
}

func (r activityRow) toEntity() entity.Activity {
	created, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return entity.Activity{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		Icon:      r.Icon,
		Order:     r.SortOrder,
		CreatedAt: created,
	}
}

// GetAllActivities returns the catalog ordered by the user-defined order.
func (db *Database) GetAllActivities() ([]entity.Activity, error) {
	rows := []activityRow{}
	err := db.Select(&rows, `SELECT id, name, color, icon, sort_order, created_at FROM activities ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("GetAllActivities: %w", err)
	}
	activities := make([]entity.Activity, 0, len(rows))
	for _, r := range rows {
		activities = append(activities, r.toEntity())
	}
	return activities, nil
}

func (db *Database) GetActivity(id string) (entity.Activity, error) {
	var row activityRow
	err := db.Get(&row, `SELECT id, name, color, icon, sort_order, created_at FROM activities WHERE id = ?`, id)
	if err != nil {
		return entity.Activity{}, fmt.Errorf("GetActivity: %w", err)
	}
	return row.toEntity(), nil
}

// AddActivity inserts a new activity, assigning its id and creation time.
// Fails once the catalog holds the configured maximum.
func (db *Database) AddActivity(a entity.Activity) (entity.Activity, error) {
	settings, err := db.GetSettings()
	if err != nil {
		return entity.Activity{}, err
	}
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM activities`); err != nil {
		return entity.Activity{}, fmt.Errorf("AddActivity: %w", err)
	}
	if count >= settings.MaxActivities {
		return entity.Activity{}, fmt.Errorf("AddActivity: activity limit (%d) reached", settings.MaxActivities)
	}

	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	_, err = db.Exec(`INSERT INTO activities (id, name, color, icon, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Color, a.Icon, a.Order, a.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return entity.Activity{}, fmt.Errorf("AddActivity: %w", err)
	}
	return a, nil
}

func (db *Database) UpdateActivity(a entity.Activity) error {
	_, err := db.Exec(`UPDATE activities SET name = ?, color = ?, icon = ?, sort_order = ? WHERE id = ?`,
		a.Name, a.Color, a.Icon, a.Order, a.ID)
	if err != nil {
		return fmt.Errorf("UpdateActivity: %w", err)
	}
	return nil
}

// DeleteActivity removes the activity from the catalog. Historical records
// keep their activity id and render with the unknown fallback.
func (db *Database) DeleteActivity(id string) error {
	_, err := db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("DeleteActivity: %w", err)
	}
	return nil
}

// SeedDefaultActivities inserts the preset catalog when no activities exist.
func (db *Database) SeedDefaultActivities() error {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM activities`); err != nil {
		return fmt.Errorf("SeedDefaultActivities: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, a := range entity.DefaultActivities() {
		if _, err := db.AddActivity(a); err != nil {
			return fmt.Errorf("SeedDefaultActivities: %w", err)
		}
	}
	return nil
}
