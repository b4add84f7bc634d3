// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for coursematch: catalog
// programs and their tags, ranking queries and responses, extracted terms,
// and configuration.
package types

import (
	"fmt"
	"strings"
)

// Modality is the delivery mode of a program.
type Modality string

const (
	ModalityOnline   Modality = "online"
	ModalityInPerson Modality = "in-person"
	ModalityHybrid   Modality = "hybrid"
)

// Modalities lists the recognized modality values in display order.
var Modalities = []Modality{ModalityOnline, ModalityInPerson, ModalityHybrid}

// ParseModality normalizes s to a recognized Modality. The empty string
// parses to the empty Modality (no value).
func ParseModality(s string) (Modality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	switch s {
	case "inperson", "in person", "onsite", "on-site":
		return ModalityInPerson, nil
	}
	for _, m := range Modalities {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unrecognized modality %q: use online, in-person, or hybrid", s)
}

// Skill is a skill tag associated with one or more programs.
type Skill struct {
	ID int64 `json:"id" yaml:"id,omitempty"`

	// Name is the display name, unique across the catalog.
	Name string `json:"name" yaml:"name" validate:"required,max=100"`

	// Category is a free-form grouping such as technical, soft, or domain.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CareerOutcome is a typical career path after completing a program.
type CareerOutcome struct {
	ID          int64  `json:"id" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title" validate:"required,max=100"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// AverageSalary is zero when unknown.
	AverageSalary  float64 `json:"average_salary,omitempty" yaml:"average_salary,omitempty"`
	SalaryCurrency string  `json:"salary_currency,omitempty" yaml:"salary_currency,omitempty"`

	// EmploymentRate is a percentage in [0,100], zero when unknown.
	EmploymentRate float64 `json:"employment_rate,omitempty" yaml:"employment_rate,omitempty" validate:"gte=0,lte=100"`
}

// Program is an educational program in the catalog. The engine treats it
// as read-only. Zero numeric fields mean the value is unknown.
type Program struct {
	ID          int64  `json:"id" yaml:"id,omitempty"`
	Name        string `json:"name" yaml:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Institution string `json:"institution" yaml:"institution" validate:"required,max=255"`

	City    string `json:"city,omitempty" yaml:"city,omitempty" validate:"max=100"`
	Country string `json:"country,omitempty" yaml:"country,omitempty" validate:"max=100"`

	// Modality is one of online, in-person, or hybrid.
	Modality Modality `json:"modality" yaml:"modality" validate:"omitempty,oneof=online in-person hybrid"`

	// Language is the language of instruction (e.g. "English").
	Language string `json:"language" yaml:"language" validate:"max=50"`

	DurationMonths int     `json:"duration_months,omitempty" yaml:"duration_months,omitempty" validate:"gte=0"`
	Tuition        float64 `json:"tuition,omitempty" yaml:"tuition,omitempty" validate:"gte=0"`
	Currency       string  `json:"currency,omitempty" yaml:"currency,omitempty" validate:"omitempty,len=3"`

	// Level is the course level, e.g. undergraduate, graduate, certificate.
	Level             string `json:"level,omitempty" yaml:"level,omitempty" validate:"max=50"`
	EntryRequirements string `json:"entry_requirements,omitempty" yaml:"entry_requirements,omitempty"`

	// Code is the institution's program code. When set it identifies the
	// program across catalog ingests.
	Code           string `json:"code,omitempty" yaml:"code,omitempty" validate:"max=50"`
	UniversityRank int    `json:"university_rank,omitempty" yaml:"university_rank,omitempty" validate:"gte=0"`

	// Skills and Outcomes keep the order in which they were declared.
	Skills   []Skill         `json:"skills" yaml:"skills,omitempty" validate:"dive"`
	Outcomes []CareerOutcome `json:"career_outcomes" yaml:"career_outcomes,omitempty" validate:"dive"`
}

// SkillNames returns the names of the program's skills in order.
func (p *Program) SkillNames() []string {
	names := make([]string, len(p.Skills))
	for i, s := range p.Skills {
		names[i] = s.Name
	}
	return names
}

// OutcomeTitles returns the titles of the program's career outcomes in order.
func (p *Program) OutcomeTitles() []string {
	titles := make([]string, len(p.Outcomes))
	for i, o := range p.Outcomes {
		titles[i] = o.Title
	}
	return titles
}

// SeedFile is the on-disk YAML layout for catalog seed files.
type SeedFile struct {
	Programs []Program `json:"programs" yaml:"programs"`
}
