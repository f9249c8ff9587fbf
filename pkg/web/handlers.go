package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/calendar"
	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/core/signups"
)

const incorrectCodeMessage = "Incorrect code"

// handlePage handles GET / and renders whichever view the visitor is on
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	_, flow := s.visitorFlow(w, r)
	s.render(w, r, http.StatusOK, flow, "")
}

// handleToggleDay handles POST /days/{day}/toggle
func (s *Server) handleToggleDay(w http.ResponseWriter, r *http.Request) {
	day, err := model.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	id, flow := s.visitorFlow(w, r)
	if flow.View != signups.ViewSignup {
		redirectHome(w, r)
		return
	}

	// the toggle buttons share the form with the name field, so keep what was typed
	if err := r.ParseForm(); err == nil {
		if _, ok := r.PostForm["name"]; ok {
			name := r.PostForm.Get("name")
			if name != flow.Name {
				flow.NameError = ""
			}
			flow.Name = name
		}
	}

	flow.Selection = s.session.SelectDays(flow.Selection, day)
	s.flows.Put(id, flow)
	redirectHome(w, r)
}

// handleSignup handles POST /signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	id, flow := s.visitorFlow(w, r)
	if flow.View != signups.ViewSignup {
		redirectHome(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	name := cleanName(r.PostFormValue("name"))
	result, err := s.session.Submit(r.Context(), name, flow.Selection.Days())
	if err != nil {
		var ve *signups.ValidationError
		if !errors.As(err, &ve) {
			s.logger.Error("Signup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "signup failed")
			return
		}

		flow.Reject(name, ve)
		s.flows.Put(id, flow)
		if ve.Field == "name" {
			s.render(w, r, http.StatusUnprocessableEntity, flow, "")
			return
		}
		redirectHome(w, r)
		return
	}

	if err := flow.Confirm(result); err != nil {
		s.logger.Error("Failed to confirm signup", zap.Error(err))
	}
	s.flows.Put(id, flow)
	redirectHome(w, r)
}

// handleSignUpAnother handles POST /signup/another
func (s *Server) handleSignUpAnother(w http.ResponseWriter, r *http.Request) {
	id, flow := s.visitorFlow(w, r)
	if err := flow.SignUpAnother(); err == nil {
		s.flows.Put(id, flow)
	}
	redirectHome(w, r)
}

// handleEnterAdmin handles POST /admin
func (s *Server) handleEnterAdmin(w http.ResponseWriter, r *http.Request) {
	id, flow := s.visitorFlow(w, r)

	if !flow.EnterAdmin(r.PostFormValue("passcode"), s.passcode()) {
		if s.opts.Metrics != nil {
			s.opts.Metrics.RecordAdminDenied()
		}
		s.logger.Warn("Admin passcode rejected", zap.String("remote_ip", clientIP(r)))
		s.render(w, r, http.StatusForbidden, flow, incorrectCodeMessage)
		return
	}

	s.logger.Info("Admin view opened", zap.String("remote_ip", clientIP(r)))
	s.flows.Put(id, flow)
	redirectHome(w, r)
}

func (s *Server) passcode() signups.Passcode {
	return signups.Passcode{Plain: s.opts.AdminPasscode, Hash: s.opts.AdminPasscodeHash}
}

// handleAdminBack handles POST /admin/back
func (s *Server) handleAdminBack(w http.ResponseWriter, r *http.Request) {
	id, flow := s.visitorFlow(w, r)
	if err := flow.Back(); err == nil {
		s.flows.Put(id, flow)
	}
	redirectHome(w, r)
}

// requireAdmin writes 403 unless the visitor is on the admin view
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	_, flow := s.visitorFlow(w, r)
	if flow.View != signups.ViewAdmin {
		s.logger.Warn("Admin action outside admin view", zap.String("path", r.URL.Path))
		writeError(w, http.StatusForbidden, "admin view required")
		return false
	}
	return true
}

// handleRemoveVolunteer handles POST /admin/days/{day}/volunteers/{id}/remove
func (s *Server) handleRemoveVolunteer(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	day, err := model.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	entryID, err := model.ParseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.session.RemoveVolunteer(r.Context(), day, entryID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	redirectHome(w, r)
}

// handleClearAll handles POST /admin/clear; the form must carry confirm=yes
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	if r.PostFormValue("confirm") != "yes" {
		writeError(w, http.StatusBadRequest, "confirmation required")
		return
	}

	s.session.ClearAll(r.Context())
	redirectHome(w, r)
}

// handleCalendar handles GET /calendar/{day}.ics
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	day, err := model.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	info, ok := s.event.DayInfo(day)
	if !ok {
		writeError(w, http.StatusNotFound, "no event on that day")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendar.FileName(s.event, info)))
	_, _ = w.Write(calendar.ICS(s.event, info, calendar.EventUID(info), time.Now()))
}

type occupancyDay struct {
	Day       model.Day `json:"day"`
	Label     string    `json:"label"`
	Occupied  int       `json:"occupied"`
	Remaining int       `json:"remaining"`
	Full      bool      `json:"full"`
}

type occupancyResponse struct {
	Capacity int            `json:"capacity"`
	Days     []occupancyDay `json:"days"`
}

// handleOccupancy handles GET /api/occupancy
func (s *Server) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	resp := occupancyResponse{Capacity: s.session.Capacity()}
	for _, c := range s.session.Counts() {
		resp.Days = append(resp.Days, occupancyDay{
			Day:       c.Day,
			Label:     s.dayInfo(c.Day).Label,
			Occupied:  c.Occupied,
			Remaining: c.Remaining(),
			Full:      c.Full(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
