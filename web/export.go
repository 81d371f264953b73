package web

import (
	"encoding/json"
	"net/http"
	"time"

	"main/entity"
)

// Export / Import structures

type activityRow struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Color     string `db:"color" json:"color"`
	Icon      string `db:"icon" json:"icon"`
	SortOrder int    `db:"sort_order" json:"order"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type recordRow struct {
	ID         string `db:"id" json:"id"`
	ActivityID string `db:"activity_id" json:"activity_id"`
	StartTime  string `db:"start_time" json:"start_time"`
	EndTime    string `db:"end_time" json:"end_time"`
	Date       string `db:"date" json:"date"`
}

type metaInfo struct {
	SchemaVersion int    `json:"schema_version"`
	ExportedAt    string `json:"exported_at"`
	Timezone      string `json:"timezone"`
}

type exportPayload struct {
	Meta       metaInfo        `json:"meta"`
	Activities []activityRow   `json:"activities"`
	Records    []recordRow     `json:"records"`
	Settings   entity.Settings `json:"settings"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var acts []activityRow
	if err := s.db.Select(&acts, `SELECT id, name, color, icon, sort_order, created_at FROM activities ORDER BY sort_order`); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError); return
	}
	var recs []recordRow
	if err := s.db.Select(&recs, `SELECT id, activity_id, start_time, end_time, date FROM records ORDER BY start_time`); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError); return
	}
	settings, err := s.db.GetSettings()
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }

	payload := exportPayload{
		Meta: metaInfo{
			SchemaVersion: 1,
			ExportedAt:    time.Now().Format(time.RFC3339),
			Timezone:      s.loc.String(),
		},
		Activities: acts,
		Records:    recs,
		Settings:   settings,
	}
	w.Header().Set("Content-Disposition", `attachment; filename="daytrack-export.json"`)
	writeJSON(w, payload)
}

// handleImport replaces the whole database content with the uploaded payload.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	var payload exportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }

	tx := s.db.MustBegin()
	for _, q := range []string{`DELETE FROM records`, `DELETE FROM ongoing`, `DELETE FROM activities`} {
		if _, err := tx.Exec(q); err != nil {
			tx.Rollback()
			http.Error(w, err.Error(), http.StatusInternalServerError); return
		}
	}
	for _, a := range payload.Activities {
		_, err := tx.Exec(`INSERT INTO activities (id, name, color, icon, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Color, a.Icon, a.SortOrder, a.CreatedAt)
		if err != nil {
			tx.Rollback()
			http.Error(w, err.Error(), http.StatusInternalServerError); return
		}
	}
	for _, rec := range payload.Records {
		_, err := tx.Exec(`INSERT INTO records (id, activity_id, start_time, end_time, date) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, rec.ActivityID, rec.StartTime, rec.EndTime, rec.Date)
		if err != nil {
			tx.Rollback()
			http.Error(w, err.Error(), http.StatusInternalServerError); return
		}
	}
	if err := tx.Commit(); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }

	if payload.Settings.MaxActivities <= 0 { payload.Settings = entity.DefaultSettings() }
	if err := s.db.SaveSettings(payload.Settings); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]any{"status": "ok", "activities": len(payload.Activities), "records": len(payload.Records)})
}
