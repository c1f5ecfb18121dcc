package models

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/gateway"
)

type View int

const (
	ViewDashboard View = iota
	ViewCalendar
	ViewDiagnoses
	ViewAdmin
)

var viewNames = [...]string{"Dashboard", "Calendar", "Diagnoses", "Admin"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "Unknown"
	}
	return viewNames[v]
}

func Views() []View {
	return []View{ViewDashboard, ViewCalendar, ViewDiagnoses, ViewAdmin}
}

func (v View) Next() View {
	return View((int(v) + 1) % len(viewNames))
}

// AdminSection is the list shown on the admin view.
type AdminSection int

const (
	SectionUsers AdminSection = iota
	SectionLogbook
)

func (s AdminSection) String() string {
	if s == SectionLogbook {
		return "Logbook"
	}
	return "Users"
}

// EditLabels names the editable user columns in form order.
var EditLabels = []string{"Name", "Email", "Role", "Country", "Crop location", "Address"}

// EditForm edits one user account.
type EditForm struct {
	UserID string
	Inputs []textinput.Model
	Focus  int
}

func NewEditForm(row bindings.UserRow) *EditForm {
	values := []string{row.Name, row.Email, row.Role, row.Country, row.CropLocation, row.Address}
	f := &EditForm{UserID: row.ID, Inputs: make([]textinput.Model, len(values))}
	for i, v := range values {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.SetValue(v)
		f.Inputs[i] = ti
	}
	f.Inputs[0].Focus()
	return f
}

func (f *EditForm) Fields() gateway.UserFields {
	v := func(i int) string { return f.Inputs[i].Value() }
	return gateway.UserFields{
		Name:         v(0),
		Email:        v(1),
		Role:         v(2),
		Country:      v(3),
		CropLocation: v(4),
		Address:      v(5),
	}
}

// Move shifts focus by delta, wrapping around.
func (f *EditForm) Move(delta int) {
	f.Inputs[f.Focus].Blur()
	n := len(f.Inputs)
	f.Focus = ((f.Focus+delta)%n + n) % n
	f.Inputs[f.Focus].Focus()
}
