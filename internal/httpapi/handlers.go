package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/username/candidate-scheduler/internal/export"
	"github.com/username/candidate-scheduler/internal/schedule"
)

const maxBodyBytes = 64 << 10

// scheduleRequest is the form plus the candidate text already on the page
type scheduleRequest struct {
	schedule.FormData
	Existing string `json:"existing"`
}

type scheduleData struct {
	Text       string   `json:"text"`
	Candidates string   `json:"candidates"`
	Lines      []string `json:"lines"`
	Filled     int      `json:"filled"`
	Total      int      `json:"total"`
}

type holidayItem struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

type holidaysData struct {
	Year     int           `json:"year"`
	Holidays []holidayItem `json:"holidays"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(h.logger, w, "ok", nil)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (scheduleRequest, bool) {
	var req scheduleRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.logger.Debug("Invalid request body", zap.Error(err))
		writeError(h.logger, w, http.StatusBadRequest, msgInvalidBody)
		return req, false
	}
	return req, true
}

// writeRequestError maps a rejected submission to 400, anything else to 500
func (h *Handler) writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *schedule.RequestError
	if errors.As(err, &reqErr) {
		writeError(h.logger, w, http.StatusBadRequest, reqErr.Error())
		return
	}
	h.logger.Error("Schedule request failed", zap.Error(err))
	writeError(h.logger, w, http.StatusInternalServerError, msgInternal)
}

func (h *Handler) createSchedule(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	sub, err := h.service.Submit(r.Context(), req.FormData, req.Existing)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	lines := sub.Lines
	if lines == nil {
		lines = []string{}
	}

	writeJSON(h.logger, w, http.StatusOK, ResponseDTO{
		Success: sub.Result.Success,
		Message: sub.Result.Message,
		Data: scheduleData{
			Text:       sub.Text,
			Candidates: sub.Candidates,
			Lines:      lines,
			Filled:     sub.Filled,
			Total:      sub.Total,
		},
	})
}

func (h *Handler) exportSchedule(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	parsed, err := h.service.Parse(req.FormData)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	entries := h.service.Generator().Entries(r.Context(), parsed)

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, parsed, entries, h.clock.Now()); err != nil {
		h.logger.Error("Failed to build calendar", zap.Error(err))
		writeError(h.logger, w, http.StatusInternalServerError, msgInternal)
		return
	}

	w.Header().Set(headerContentType, mimeTextCalendar)
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		h.logger.Warn("Failed to write calendar", zap.Error(err))
	}
}

func (h *Handler) listHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(h.logger, w, http.StatusBadRequest, msgInvalidYear)
		return
	}

	set := h.holidays.HolidaysForYear(r.Context(), year)

	items := make([]holidayItem, 0, set.Len())
	for _, date := range set.Dates() {
		name, _ := set.Name(date)
		items = append(items, holidayItem{Date: date, Name: name})
	}

	writeSuccess(h.logger, w, msgHolidaysOK, holidaysData{Year: year, Holidays: items})
}

func (h *Handler) listDurations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, end := query.Get("start"), query.Get("end")

	options, err := schedule.AvailableDurations(start, end)
	if err != nil {
		writeError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(h.logger, w, msgDurationsOK, options)
}
