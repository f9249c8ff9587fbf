package signups

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

// View is the screen a visitor is currently looking at
type View string

const (
	ViewSignup    View = "signup"
	ViewConfirmed View = "confirmed"
	ViewAdmin     View = "admin"
)

// Flow is one visitor's UI state. It holds no shared data.
type Flow struct {
	View          View
	Selection     Selection
	Name          string
	NameError     string
	SubmittedName string
	SubmittedDays []model.Day
	Skipped       []model.Day
}

// NewFlow starts a visitor on the signup view
func NewFlow() *Flow {
	return &Flow{View: ViewSignup}
}

// Confirm moves from signup to confirmed after a successful submission
func (f *Flow) Confirm(result *SubmitResult) error {
	if f.View != ViewSignup || result == nil {
		return ErrInvalidTransition
	}
	f.View = ViewConfirmed
	f.SubmittedName = result.Name
	f.SubmittedDays = append([]model.Day(nil), result.Added...)
	f.Skipped = append([]model.Day(nil), result.Skipped...)
	f.Selection = nil
	f.NameError = ""
	return nil
}

// Reject keeps the visitor on signup with the entered name and the validation message
func (f *Flow) Reject(name string, err *ValidationError) {
	f.Name = name
	if err != nil && err.Field == "name" {
		f.NameError = err.Message
	}
}

// SignUpAnother returns from confirmed to a blank signup form
func (f *Flow) SignUpAnother() error {
	if f.View != ViewConfirmed {
		return ErrInvalidTransition
	}
	f.View = ViewSignup
	f.Name = ""
	f.NameError = ""
	f.Selection = nil
	f.SubmittedName = ""
	f.SubmittedDays = nil
	f.Skipped = nil
	return nil
}

// Passcode is the shared admin code, configured in plain text or as a bcrypt hash.
// The hash wins when both are set.
type Passcode struct {
	Plain string
	Hash  string
}

// Enabled reports whether any code is configured
func (p Passcode) Enabled() bool {
	return p.Plain != "" || p.Hash != ""
}

// Matches compares code exactly, with no trimming or case folding
func (p Passcode) Matches(code string) bool {
	switch {
	case p.Hash != "":
		return bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(code)) == nil
	case p.Plain != "":
		return subtle.ConstantTimeCompare([]byte(code), []byte(p.Plain)) == 1
	default:
		return false
	}
}

// HashPasscode returns the bcrypt hash to put in adminPasscodeHash
func HashPasscode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// EnterAdmin switches to the admin view when code matches the passcode.
// An unset passcode disables the admin view.
func (f *Flow) EnterAdmin(code string, passcode Passcode) bool {
	if f.View != ViewSignup || !passcode.Enabled() {
		return false
	}
	if !passcode.Matches(code) {
		return false
	}
	f.View = ViewAdmin
	return true
}

// Back leaves the admin view
func (f *Flow) Back() error {
	if f.View != ViewAdmin {
		return ErrInvalidTransition
	}
	f.View = ViewSignup
	return nil
}

// FirstName is the first word of the submitted name
func (f *Flow) FirstName() string {
	fields := strings.Fields(f.SubmittedName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Clone returns a copy safe to hand to a renderer
func (f *Flow) Clone() *Flow {
	c := *f
	c.Selection = NewSelection(f.Selection.Days()...)
	c.SubmittedDays = append([]model.Day(nil), f.SubmittedDays...)
	c.Skipped = append([]model.Day(nil), f.Skipped...)
	return &c
}
