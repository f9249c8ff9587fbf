package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/calendar"
	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/core/signups"
)

//go:embed templates/*.html
var templateFS embed.FS

// raw HTML in the markdown source is dropped, not passed through
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"markdown": renderMarkdown,
	}
	return template.New("page.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

type dayCard struct {
	Day      model.Day
	Info     model.EventDay
	Occupied int
	Capacity int
	Percent  int
	Full     bool
	Selected bool
	Disabled bool
}

type confirmedDay struct {
	Info        model.EventDay
	CalendarURL string
	ICSPath     string
}

type adminEntry struct {
	Position   int
	Name       string
	ID         string
	RemovePath string
}

type adminDay struct {
	Info     model.EventDay
	Occupied int
	Capacity int
	Entries  []adminEntry
}

type pageData struct {
	Event      model.Event
	View       signups.View
	CSRFField  template.HTML
	AdminError string

	// signup
	Days        []dayCard
	Name        string
	NameError   string
	CanSubmit   bool
	SubmitLabel string

	// confirmed
	FirstName   string
	Confirmed   []confirmedDay
	Skipped     []model.EventDay
	MapsURL     string
	ShareURL    string
	ReminderURL string

	// admin
	Admin []adminDay
}

// dayInfo returns the configured day, falling back to a bare label for unknown days
func (s *Server) dayInfo(d model.Day) model.EventDay {
	if info, ok := s.event.DayInfo(d); ok {
		return info
	}
	return model.EventDay{Day: d, Label: string(d), ShortLabel: string(d)}
}

func submitLabel(selected int) string {
	switch {
	case selected == 0:
		return "Select a Day Above"
	case selected >= len(model.AllDays):
		return "Sign Up for Both Days"
	default:
		return "Sign Up to Volunteer ⚡"
	}
}

func (s *Server) buildPage(r *http.Request, flow *signups.Flow, adminError string) pageData {
	data := pageData{
		Event:      s.event,
		View:       flow.View,
		CSRFField:  csrf.TemplateField(r),
		AdminError: adminError,
	}

	switch flow.View {
	case signups.ViewConfirmed:
		data.FirstName = flow.FirstName()
		for _, d := range flow.SubmittedDays {
			info := s.dayInfo(d)
			data.Confirmed = append(data.Confirmed, confirmedDay{
				Info:        info,
				CalendarURL: calendar.GoogleCalendarURL(s.event, info),
				ICSPath:     "/calendar/" + string(d) + ".ics",
			})
		}
		for _, d := range flow.Skipped {
			data.Skipped = append(data.Skipped, s.dayInfo(d))
		}
		data.MapsURL = calendar.MapsURL(s.event)
		data.ShareURL = calendar.ShareURL(s.baseURL(r))
		data.ReminderURL = calendar.ReminderMailto(s.event, data.FirstName, flow.SubmittedDays)

	case signups.ViewAdmin:
		record := s.session.Snapshot()
		for _, d := range model.AllDays {
			day := adminDay{
				Info:     s.dayInfo(d),
				Occupied: len(record[d]),
				Capacity: s.session.Capacity(),
			}
			for i, entry := range record[d] {
				id := entry.ID.String()
				day.Entries = append(day.Entries, adminEntry{
					Position:   i + 1,
					Name:       entry.Name,
					ID:         id,
					RemovePath: "/admin/days/" + string(d) + "/volunteers/" + id + "/remove",
				})
			}
			data.Admin = append(data.Admin, day)
		}

	default:
		data.Name = flow.Name
		data.NameError = flow.NameError
		data.CanSubmit = flow.Selection.Len() > 0
		data.SubmitLabel = submitLabel(flow.Selection.Len())
		for _, c := range s.session.Counts() {
			selected := flow.Selection.Has(c.Day)
			percent := 0
			if c.Capacity > 0 {
				percent = min(100, c.Occupied*100/c.Capacity)
			}
			data.Days = append(data.Days, dayCard{
				Day:      c.Day,
				Info:     s.dayInfo(c.Day),
				Occupied: c.Occupied,
				Capacity: c.Capacity,
				Percent:  percent,
				Full:     c.Full(),
				Selected: selected,
				Disabled: c.Full() && !selected,
			})
		}
	}

	return data
}

// render executes the page into a buffer so a template error never leaves a half-written response
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, flow *signups.Flow, adminError string) {
	var buf bytes.Buffer
	if err := s.tpl.ExecuteTemplate(&buf, "page.html", s.buildPage(r, flow, adminError)); err != nil {
		s.logger.Error("Failed to render page", zap.String("view", string(flow.View)), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) baseURL(r *http.Request) string {
	if s.opts.BaseURL != "" {
		return s.opts.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
