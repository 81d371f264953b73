package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"main/entity"
	"main/query"
	"main/recorder"
	"main/stats"
)

type Server struct {
	db  *query.Database
	rec *recorder.Recorder
	loc *time.Location
}

// StartServer registers the JSON API and serves it on addr in the background.
// loc is the default timezone for calendar-day resolution; individual requests
// may override it with a tz query parameter.
func StartServer(addr string, db *query.Database, rec *recorder.Recorder, loc *time.Location) {
	s := &Server{db: db, rec: rec, loc: loc}

	http.HandleFunc("/api/activities", s.handleActivities)
	http.HandleFunc("/api/activities/update", s.handleActivityUpdate)
	http.HandleFunc("/api/activities/delete", s.handleActivityDelete)

	http.HandleFunc("/api/start", s.handleStart)
	http.HandleFunc("/api/stop", s.handleStop)
	http.HandleFunc("/api/ongoing", s.handleOngoing)

	http.HandleFunc("/api/records", s.handleRecords)
	http.HandleFunc("/api/records/delete", s.handleRecordDelete)
	http.HandleFunc("/api/records/clear", s.handleRecordsClear)

	http.HandleFunc("/api/summary", s.handleSummary)
	http.HandleFunc("/api/timeline", s.handleTimeline)

	http.HandleFunc("/api/settings", s.handleSettings)

	// Export / Import API
	http.HandleFunc("/api/export", s.handleExport)
	http.HandleFunc("/api/import", s.handleImport)

	go func() {
		log.Printf("Web UI available at http://%v\n", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Println("web server error:", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON:", err)
	}
}

// location resolves the tz query parameter, falling back to the server zone.
func (s *Server) location(r *http.Request) *time.Location {
	tz := strings.TrimSpace(r.URL.Query().Get("tz"))
	if tz == "" {
		return s.loc
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return s.loc
	}
	return loc
}

func validDate(date string) bool {
	_, err := time.Parse(stats.DateFormat, date)
	return err == nil
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		activities, err := s.db.GetAllActivities()
		if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
		writeJSON(w, activities); return
	}
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	type req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Icon  string `json:"icon"`
		Order int    `json:"order"`
	}
	var body req
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	name := strings.TrimSpace(body.Name)
	if name == "" { http.Error(w, "name empty", http.StatusBadRequest); return }
	activity, err := s.db.AddActivity(entity.Activity{Name: name, Color: body.Color, Icon: body.Icon, Order: body.Order})
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, activity)
}

func (s *Server) handleActivityUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	var body entity.Activity
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	if body.ID == "" || strings.TrimSpace(body.Name) == "" { http.Error(w, "id/name empty", http.StatusBadRequest); return }
	if err := s.db.UpdateActivity(body); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleActivityDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	type req struct{ ID string `json:"id"` }
	var body req
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	if body.ID == "" { http.Error(w, "id empty", http.StatusBadRequest); return }
	if err := s.db.DeleteActivity(body.ID); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	type req struct{ ActivityID string `json:"activity_id"` }
	var body req
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	if body.ActivityID == "" { http.Error(w, "activity_id empty", http.StatusBadRequest); return }
	if _, err := s.db.GetActivity(body.ActivityID); err != nil { http.Error(w, "unknown activity", http.StatusBadRequest); return }
	ongoing, err := s.rec.Start(body.ActivityID)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, ongoing)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	record, err := s.rec.Stop()
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]any{"record": record})
}

func (s *Server) handleOngoing(w http.ResponseWriter, r *http.Request) {
	ongoing, err := s.rec.Current()
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]any{"ongoing": ongoing})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if !validDate(date) { http.Error(w, "bad date", http.StatusBadRequest); return }
	records, err := s.db.GetRecordsByDate(date)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, records)
}

func (s *Server) handleRecordDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	type req struct{ ID string `json:"id"` }
	var body req
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	if body.ID == "" { http.Error(w, "id empty", http.StatusBadRequest); return }
	if err := s.db.DeleteRecord(body.ID); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleRecordsClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	if err := s.db.ClearRecords(); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]string{"status": "ok"})
}

// ongoingAsRecord turns the in-progress activity into an open record so stats
// can account for it; stats substitutes now for the missing end.
func ongoingAsRecord(o *entity.Ongoing, loc *time.Location) entity.ActivityRecord {
	return entity.ActivityRecord{
		ActivityID: o.ActivityID,
		Start:      o.Start,
		Date:       o.Start.In(loc).Format(stats.DateFormat),
	}
}

// handleSummary returns the per-activity breakdown for a unit
// (day/week/month/year) around a reference date, or an explicit start/end
// range.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	loc := s.location(r)
	now := time.Now()

	start := strings.TrimSpace(r.URL.Query().Get("start"))
	end := strings.TrimSpace(r.URL.Query().Get("end"))
	if start == "" || end == "" {
		date := strings.TrimSpace(r.URL.Query().Get("date"))
		if date == "" { date = now.In(loc).Format(stats.DateFormat) }
		if !validDate(date) { http.Error(w, "bad date", http.StatusBadRequest); return }
		unit := r.URL.Query().Get("unit")
		if unit == "" { unit = "day" }
		var err error
		switch unit {
		case "day":
			start, end = date, date
		case "week":
			start, end, err = stats.WeekRange(date, loc)
		case "month":
			start, end, err = stats.MonthRange(date, loc)
		case "year":
			start, end, err = stats.YearRange(date, loc)
		default:
			http.Error(w, "bad unit", http.StatusBadRequest); return
		}
		if err != nil { http.Error(w, err.Error(), http.StatusBadRequest); return }
	}
	if !validDate(start) || !validDate(end) { http.Error(w, "bad date range", http.StatusBadRequest); return }

	records, err := s.db.GetRecordsByRange(start, end)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	records, err = s.withOngoing(records, start, end, loc)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	activities, err := s.db.GetAllActivities()
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }

	var items []entity.SummaryEntry
	if start == end {
		items, err = stats.AggregateDay(records, activities, start, now, loc)
	} else {
		items, err = stats.AggregateRange(records, activities, start, end, now, loc)
	}
	if err != nil { http.Error(w, err.Error(), http.StatusBadRequest); return }
	writeJSON(w, map[string]any{"start": start, "end": end, "items": items})
}

// withOngoing appends the in-progress activity as an open record when its
// calendar day falls inside [start, end].
func (s *Server) withOngoing(records []entity.ActivityRecord, start, end string, loc *time.Location) ([]entity.ActivityRecord, error) {
	ongoing, err := s.rec.Current()
	if err != nil {
		return nil, err
	}
	if ongoing == nil {
		return records, nil
	}
	if date := ongoing.Start.In(loc).Format(stats.DateFormat); date >= start && date <= end {
		records = append(records, ongoingAsRecord(ongoing, loc))
	}
	return records, nil
}

// handleTimeline returns the gap-filled 1440-minute partition for one date.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if !validDate(date) { http.Error(w, "bad date", http.StatusBadRequest); return }
	loc := s.location(r)

	records, err := s.db.GetRecordsByDate(date)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	records, err = s.withOngoing(records, date, date, loc)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	activities, err := s.db.GetAllActivities()
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }

	blocks, err := stats.TimeBlocks(records, activities, date, time.Now(), loc)
	if err != nil { http.Error(w, err.Error(), http.StatusBadRequest); return }
	writeJSON(w, map[string]any{"date": date, "blocks": blocks})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		settings, err := s.db.GetSettings()
		if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
		writeJSON(w, settings); return
	}
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	var body entity.Settings
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	if body.MaxActivities <= 0 { body.MaxActivities = entity.MaxActivities }
	if err := s.db.SaveSettings(body); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]string{"status": "ok"})
}
