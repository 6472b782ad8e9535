package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"project-rows/internal/database"
	"project-rows/internal/metrics"
	"project-rows/internal/models"
	"project-rows/internal/ws"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Application errors are reported in the body with a 200 status. Clients
// tell them apart from rows by the "error" key.
const (
	errIndexOutOfRange  = "index out of range"
	errNoStatusProvided = "no status provided"
)

var errInvalidBody = errors.New("invalid request body")

// Broadcaster is notified after every successful write.
type Broadcaster interface {
	Publish(eventType string, payload any)
}

type RowEvent struct {
	Index int           `json:"index"`
	Row   models.Record `json:"row"`
}

// ProjectHandler serves the /rows API. It holds no state between requests:
// every call loads the whole collection from the store.
type ProjectHandler struct {
	store   database.Store
	hub     Broadcaster
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewProjectHandler(store database.Store, hub Broadcaster, m *metrics.Metrics, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{store: store, hub: hub, metrics: m, logger: logger}
}

// ListRows returns every row.
func (h *ProjectHandler) ListRows(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, rows)
}

// GetRow returns the row at {index}.
func (h *ProjectHandler) GetRow(w http.ResponseWriter, r *http.Request) {
	index := rowIndex(r)

	rows, ok := h.load(w, r)
	if !ok {
		return
	}
	if !rows.InRange(index) {
		writeError(w, errIndexOutOfRange)
		return
	}
	writeJSON(w, rows[index])
}

// AddRow appends the request body to the collection as-is and echoes it.
// An empty body stores null.
func (h *ProjectHandler) AddRow(w http.ResponseWriter, r *http.Request) {
	newRow, err := decodeBody(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rows, ok := h.load(w, r)
	if !ok {
		return
	}
	rows = append(rows, newRow)
	if !h.save(w, r, rows) {
		return
	}

	h.publish(ws.TypeRowAdded, RowEvent{Index: len(rows) - 1, Row: newRow})
	writeJSON(w, newRow)
}

// UpdateRowStatus sets the status field of the row at {index}. The body
// is checked before storage is touched, so a missing status never rewrites
// the collection.
func (h *ProjectHandler) UpdateRowStatus(w http.ResponseWriter, r *http.Request) {
	index := rowIndex(r)

	body, err := decodeBody(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	var status any
	switch req := body.(type) {
	case nil:
	case map[string]any:
		status = req[models.StatusField]
	default:
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if status == nil {
		writeError(w, errNoStatusProvided)
		return
	}

	rows, ok := h.load(w, r)
	if !ok {
		return
	}
	if !rows.InRange(index) {
		writeError(w, errIndexOutOfRange)
		return
	}

	updated, err := rows.SetStatus(index, status)
	if err != nil {
		h.logger.Error("Failed to update row status", zap.Int("index", index), zap.Error(err))
		http.Error(w, "Failed to update row status", http.StatusInternalServerError)
		return
	}
	if !h.save(w, r, rows) {
		return
	}

	h.publish(ws.TypeRowUpdated, RowEvent{Index: index, Row: updated})
	writeJSON(w, updated)
}

func (h *ProjectHandler) load(w http.ResponseWriter, r *http.Request) (models.Collection, bool) {
	rows, err := h.store.Load(r.Context())
	h.metrics.ObserveStore("load", err)
	if err != nil {
		h.logger.Error("Failed to load rows", zap.Error(err))
		http.Error(w, "Failed to load rows", http.StatusInternalServerError)
		return nil, false
	}
	return rows, true
}

func (h *ProjectHandler) save(w http.ResponseWriter, r *http.Request, rows models.Collection) bool {
	err := h.store.Save(r.Context(), rows)
	h.metrics.ObserveStore("save", err)
	if err != nil {
		h.logger.Error("Failed to save rows", zap.Error(err))
		http.Error(w, "Failed to save rows", http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *ProjectHandler) publish(eventType string, event RowEvent) {
	if h.hub != nil {
		h.hub.Publish(eventType, event)
	}
}

// rowIndex reads {index}. The route only matches digits, so the one way
// Atoi fails is overflow, and a number that large is out of range anyway.
func rowIndex(r *http.Request) int {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return -1
	}
	return index
}

// decodeBody reads one JSON value from the request. An empty body decodes
// to nil. Numbers are kept as json.Number.
func decodeBody(r *http.Request) (any, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errInvalidBody
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errInvalidBody
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, map[string]string{"error": msg})
}
