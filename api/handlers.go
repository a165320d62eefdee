package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rifa/domain/entities"
	"rifa/domain/services"
	"rifa/infrastructure/export"
	"rifa/infrastructure/render"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxEventBodyBytes = 12 << 20

// drawKeyPrefix keeps API sessions apart from Discord channel sessions
const drawKeyPrefix = "api:"

type drawStateResponse struct {
	Key            string             `json:"key"`
	Title          string             `json:"title"`
	Range          entities.Range     `json:"range"`
	Phase          entities.DrawPhase `json:"phase"`
	CurrentNumber  *int               `json:"current_number"`
	Winner         *int               `json:"winner"`
	AvailableCount int                `json:"available_count"`
	IsSoldOut      bool               `json:"is_sold_out"`
	History        []int              `json:"history"`
	Progress       float64            `json:"progress"`
}

type startDrawResponse struct {
	Started bool              `json:"started"`
	State   drawStateResponse `json:"state"`
}

type openDrawRequest struct {
	EventID string `json:"event_id"`
}

func newDrawState(key string, snap services.DrawSnapshot) drawStateResponse {
	history := snap.History
	if history == nil {
		history = []int{}
	}
	return drawStateResponse{
		Key:            key,
		Title:          snap.Title,
		Range:          snap.Range,
		Phase:          snap.Phase,
		CurrentNumber:  snap.CurrentNumber,
		Winner:         snap.Winner,
		AvailableCount: snap.AvailableCount,
		IsSoldOut:      snap.IsSoldOut,
		History:        history,
		Progress:       snap.Progress,
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	code := http.StatusOK

	if len(s.checks) > 0 {
		resp.Checks = make(map[string]string, len(s.checks))
	}
	for _, c := range s.checks {
		if err := c.check(r.Context()); err != nil {
			log.WithFields(log.Fields{
				"check": c.name,
				"error": err,
			}).Warn("Health check failed")
			resp.Checks[c.name] = err.Error()
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.name] = "ok"
	}

	writeJSON(w, code, resp)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var (
		list []*entities.RaffleEvent
		err  error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		list, err = s.events.Search(r.Context(), term)
	} else {
		list, err = s.events.List(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []*entities.RaffleEvent{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	event.ID = ""
	event.CreatedAt = time.Time{}

	saved, err := s.events.Save(r.Context(), event)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	existing, err := s.events.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	event, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt

	saved, err := s.events.Save(r.Context(), event)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.events.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateEvent(w http.ResponseWriter, r *http.Request) {
	copied, err := s.events.Duplicate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, copied)
}

func (s *Server) handleGridPage(w http.ResponseWriter, r *http.Request) {
	_, page, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	event, page, ok := s.loadPage(w, r)
	if !ok {
		return
	}

	png, err := s.sheets.RenderPage(event, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("%s-%02d.png", render.FileBaseName(event), page.Number)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) loadPage(w http.ResponseWriter, r *http.Request) (*entities.RaffleEvent, *services.GridPage, bool) {
	vars := mux.Vars(r)
	number, err := strconv.Atoi(vars["page"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return nil, nil, false
	}

	event, err := s.events.Get(r.Context(), vars["id"])
	if err != nil {
		writeDomainError(w, err)
		return nil, nil, false
	}

	page, err := s.grid.Page(event, number)
	if err != nil {
		writeDomainError(w, err)
		return nil, nil, false
	}
	return event, page, true
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	list, err := s.events.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	format := mux.Vars(r)["format"]
	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "csv" {
		err = export.WriteCSV(&buf, list)
	} else {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, list)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(format, s.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleOpenDraw(w http.ResponseWriter, r *http.Request) {
	var req openDrawRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil || req.EventID == "" {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}

	key := mux.Vars(r)["key"]
	snap, err := s.draws.Open(r.Context(), drawKeyPrefix+key, req.EventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDrawState(key, snap))
}

func (s *Server) handleDrawState(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	snap, err := s.draws.Snapshot(drawKeyPrefix + key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDrawState(key, snap))
}

func (s *Server) handleStartDraw(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	started, err := s.draws.Start(drawKeyPrefix + key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	snap, err := s.draws.Snapshot(drawKeyPrefix + key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusAccepted
	if !started {
		status = http.StatusConflict
	}
	writeJSON(w, status, startDrawResponse{Started: started, State: newDrawState(key, snap)})
}

func (s *Server) handleCloseDraw(w http.ResponseWriter, r *http.Request) {
	if err := s.draws.Close(drawKeyPrefix + mux.Vars(r)["key"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (*entities.RaffleEvent, bool) {
	var event entities.RaffleEvent
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body: "+err.Error())
		return nil, false
	}
	return &event, true
}
