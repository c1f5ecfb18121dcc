// Package page loads the render-time data the server would otherwise embed
// in its pages: the diagnoses a user can act on, the logbook and the admin
// user list.
package page

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/gateway"
)

type Diagnosis struct {
	ID         string                 `yaml:"id"`
	Plant      string                 `yaml:"plant"`
	Disease    string                 `yaml:"disease"`
	Suggestion string                 `yaml:"suggestion,omitempty"`
	Schedule   []gateway.ScheduleItem `yaml:"schedule,omitempty"`
	Confirmed  bool                   `yaml:"confirmed,omitempty"`
	Reported   bool                   `yaml:"reported,omitempty"`
}

type Entry struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

type User struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	Role         string `yaml:"role"`
	Country      string `yaml:"country,omitempty"`
	CropLocation string `yaml:"crop_location,omitempty"`
	Address      string `yaml:"address,omitempty"`
}

// Manifest is one page's worth of server data.
type Manifest struct {
	Diagnoses []Diagnosis `yaml:"diagnoses"`
	Logbook   []Entry     `yaml:"logbook"`
	Users     []User      `yaml:"users"`
}

// Load reads a manifest file. An empty path yields an empty manifest.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return &Manifest{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page manifest: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse page manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	seen := map[string]bool{}
	for i, d := range m.Diagnoses {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("page manifest: diagnosis %d has no id", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("page manifest: duplicate diagnosis %q", d.ID)
		}
		seen[d.ID] = true
	}
	for i, e := range m.Logbook {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("page manifest: logbook entry %d has no id", i)
		}
	}
	for i, u := range m.Users {
		if strings.TrimSpace(u.ID) == "" {
			return fmt.Errorf("page manifest: user %d has no id", i)
		}
	}
	return nil
}

// Diagnosis returns the diagnosis with id.
func (m *Manifest) Diagnosis(id string) (Diagnosis, bool) {
	for _, d := range m.Diagnoses {
		if d.ID == id {
			return d, true
		}
	}
	return Diagnosis{}, false
}

// Panel builds the feedback controls for d. Feedback already given on the
// server leaves the matching buttons locked.
func (d Diagnosis) Panel() *bindings.DiagnosisPanel {
	p := bindings.NewDiagnosisPanel(d.ID, d.Plant, d.Disease)
	p.Suggestion = d.Suggestion
	p.Schedule = d.Schedule
	switch {
	case d.Confirmed:
		p.Confirm = bindings.Button{Label: "✓ Confirmed!", Disabled: true}
		p.Report.Disabled = true
	case d.Reported:
		p.Report = bindings.Button{Label: "⚑ Reported", Disabled: true}
		p.Confirm.Disabled = true
	}
	return p
}

func (m *Manifest) Panels() []*bindings.DiagnosisPanel {
	out := make([]*bindings.DiagnosisPanel, 0, len(m.Diagnoses))
	for _, d := range m.Diagnoses {
		out = append(out, d.Panel())
	}
	return out
}

func (m *Manifest) LogEntries() *bindings.List[bindings.LogEntry] {
	rows := make([]bindings.LogEntry, 0, len(m.Logbook))
	for _, e := range m.Logbook {
		rows = append(rows, bindings.LogEntry{ID: e.ID, Title: e.Title})
	}
	return bindings.NewList(rows...)
}

func (m *Manifest) UserRows() *bindings.List[bindings.UserRow] {
	rows := make([]bindings.UserRow, 0, len(m.Users))
	for _, u := range m.Users {
		rows = append(rows, bindings.UserRow{
			ID: u.ID,
			UserFields: gateway.UserFields{
				Name:         u.Name,
				Email:        u.Email,
				Role:         u.Role,
				Country:      u.Country,
				CropLocation: u.CropLocation,
				Address:      u.Address,
			},
		})
	}
	return bindings.NewList(rows...)
}
