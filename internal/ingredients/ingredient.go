// Package ingredients models the structured career facts a job applicant
// collects: skills, experience, education, certifications and projects.
package ingredients

import (
	"strings"

	"github.com/google/uuid"
)

// Category is the closed set of ingredient kinds.
type Category string

const (
	CategorySkill         Category = "skill"
	CategoryExperience    Category = "experience"
	CategoryEducation     Category = "education"
	CategoryCertification Category = "certification"
	CategoryProject       Category = "project"
)

// Valid reports whether the category is one of the closed enum values.
func (c Category) Valid() bool {
	switch c {
	case CategorySkill, CategoryExperience, CategoryEducation, CategoryCertification, CategoryProject:
		return true
	default:
		return false
	}
}

// Ingredient is one atomic career fact. It is created fully formed or not at
// all; there is no partial mid-state.
type Ingredient struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Details  string   `json:"details,omitempty"`
}

// New creates an ingredient from manual entry, generating its identifier and
// coercing the category into the closed set.
func New(name string, category Category, details string) Ingredient {
	return Ingredient{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Category: NormalizeCategory(string(category)),
		Details:  strings.TrimSpace(details),
	}
}

// NormalizeCategory maps an arbitrary category string reported by the model
// into the closed set. Unrecognized values are reassigned by keyword, with
// skill as the final default.
func NormalizeCategory(raw string) Category {
	normalized := Category(strings.ToLower(strings.TrimSpace(raw)))
	if normalized.Valid() {
		return normalized
	}

	switch {
	case containsAny(string(normalized), "intern", "work"):
		return CategoryExperience
	case containsAny(string(normalized), "school", "degree"):
		return CategoryEducation
	case strings.Contains(string(normalized), "project"):
		return CategoryProject
	default:
		return CategorySkill
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
