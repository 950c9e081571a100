package models

import (
	"bytes"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PresentLabel replaces the end date of an ongoing entry.
const PresentLabel = "Present"

// periodLayout is the month/year format the editor produces, e.g. "06/2022".
const periodLayout = "01/2006"

// validation errors
var (
	ErrNameRequired    = errors.New("name or surname is required")
	ErrInvalidEmail    = errors.New("email is not a valid address")
	ErrCompanyRequired = errors.New("company is required")
	ErrInstitutionReq  = errors.New("institution is required")
	ErrStartRequired   = errors.New("start date is required")
	ErrEndBeforeStart  = errors.New("end date is before start date")
	ErrBlankSkill      = errors.New("skill label is blank")
)

// ResumeData is everything the user entered. Any field may be empty.
type ResumeData struct {
	Name    string  `json:"name" yaml:"name"`
	Surname string  `json:"surname" yaml:"surname"`
	Contact Contact `json:"contact" yaml:"contact"`

	Education []EducationEntry `json:"education" yaml:"education"`
	Work      []WorkEntry      `json:"work" yaml:"work"`

	Summary string `json:"summary" yaml:"summary"`

	// skills are shown in declared order, hard skills first
	HardSkills []Skill `json:"hard_skills" yaml:"hard_skills"`
	SoftSkills []Skill `json:"soft_skills" yaml:"soft_skills"`
}

// Contact holds the contact lines.
type Contact struct {
	Email   string `json:"email" yaml:"email"`
	Phone   string `json:"phone" yaml:"phone"`
	Website string `json:"website" yaml:"website"`
	Address string `json:"address" yaml:"address"`
}

// EducationEntry is one school.
type EducationEntry struct {
	Institution string `json:"institution" yaml:"institution"`
	StartDate   string `json:"start_date" yaml:"start_date"`
	EndDate     string `json:"end_date" yaml:"end_date"`
	Ongoing     bool   `json:"ongoing" yaml:"ongoing"`
	Details     string `json:"details" yaml:"details"`
}

// Period returns the date range shown next to the entry.
func (e EducationEntry) Period() string {
	return Period(e.StartDate, e.EndDate, e.Ongoing)
}

// WorkEntry is one job.
type WorkEntry struct {
	Company          string `json:"company" yaml:"company"`
	Position         string `json:"position" yaml:"position"`
	Location         string `json:"location" yaml:"location"`
	StartDate        string `json:"start_date" yaml:"start_date"`
	EndDate          string `json:"end_date" yaml:"end_date"`
	Ongoing          bool   `json:"ongoing" yaml:"ongoing"`
	Responsibilities string `json:"responsibilities" yaml:"responsibilities"`
}

// Period returns the date range shown next to the entry.
func (e WorkEntry) Period() string {
	return Period(e.StartDate, e.EndDate, e.Ongoing)
}

// Skill is a toggleable skill label.
type Skill struct {
	Label    string `json:"label" yaml:"label"`
	Selected bool   `json:"selected" yaml:"selected"`
}

// Period formats a date range. An ongoing range always ends with
// PresentLabel whatever the end date holds; a blank end date is dropped
// rather than shown as a dangling dash.
func Period(start, end string, ongoing bool) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if ongoing {
		end = PresentLabel
	}

	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}

// FullName returns "<name> <surname>" with surrounding blanks removed.
func (r *ResumeData) FullName() string {
	return strings.Join(strings.Fields(r.Name+" "+r.Surname), " ")
}

// SelectedSkills returns the labels of the selected hard skills followed by
// the selected soft skills, in declared order.
func (r *ResumeData) SelectedSkills() []string {
	var out []string
	for _, group := range [][]Skill{r.HardSkills, r.SoftSkills} {
		for _, s := range group {
			if s.Selected {
				out = append(out, s.Label)
			}
		}
	}
	return out
}

// Headline returns the position of the first work entry, or fallback when
// there is none.
func (r *ResumeData) Headline(fallback string) string {
	if len(r.Work) > 0 {
		if p := strings.TrimSpace(r.Work[0].Position); p != "" {
			return p
		}
	}
	return fallback
}

// Validate reports problems an editor should surface. Rendering never
// depends on it: templates draw any value, including the zero one.
func (r *ResumeData) Validate() error {
	var errs []error

	if r.FullName() == "" {
		errs = append(errs, ErrNameRequired)
	}
	if email := strings.TrimSpace(r.Contact.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs = append(errs, fmt.Errorf("contact.email %q: %w", email, ErrInvalidEmail))
		}
	}

	for i, w := range r.Work {
		if strings.TrimSpace(w.Company) == "" {
			errs = append(errs, fmt.Errorf("work[%d]: %w", i, ErrCompanyRequired))
		}
		if err := checkPeriod(w.StartDate, w.EndDate, w.Ongoing); err != nil {
			errs = append(errs, fmt.Errorf("work[%d]: %w", i, err))
		}
	}
	for i, e := range r.Education {
		if strings.TrimSpace(e.Institution) == "" {
			errs = append(errs, fmt.Errorf("education[%d]: %w", i, ErrInstitutionReq))
		}
		if err := checkPeriod(e.StartDate, e.EndDate, e.Ongoing); err != nil {
			errs = append(errs, fmt.Errorf("education[%d]: %w", i, err))
		}
	}

	for i, s := range r.HardSkills {
		if strings.TrimSpace(s.Label) == "" {
			errs = append(errs, fmt.Errorf("hard_skills[%d]: %w", i, ErrBlankSkill))
		}
	}
	for i, s := range r.SoftSkills {
		if strings.TrimSpace(s.Label) == "" {
			errs = append(errs, fmt.Errorf("soft_skills[%d]: %w", i, ErrBlankSkill))
		}
	}

	return errors.Join(errs...)
}

// checkPeriod only compares dates written as MM/YYYY; free-form dates pass.
func checkPeriod(start, end string, ongoing bool) error {
	start = strings.TrimSpace(start)
	if start == "" {
		return ErrStartRequired
	}
	if ongoing || strings.TrimSpace(end) == "" {
		return nil
	}
	s, err := time.Parse(periodLayout, start)
	if err != nil {
		return nil
	}
	e, err := time.Parse(periodLayout, strings.TrimSpace(end))
	if err != nil {
		return nil
	}
	if e.Before(s) {
		return fmt.Errorf("%s before %s: %w", end, start, ErrEndBeforeStart)
	}
	return nil
}

// ParseResume decodes a YAML or JSON document into ResumeData. Unknown keys
// are rejected so typos in hand-written files are caught.
func ParseResume(data []byte) (*ResumeData, error) {
	var r ResumeData
	if len(bytes.TrimSpace(data)) == 0 {
		return &r, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	return &r, nil
}
