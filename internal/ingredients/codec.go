package ingredients

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/career-chef/internal/ai"
)

// StorageKey is the fixed key a collaborator persists the ingredient list
// under. The core knows nothing about the storage medium.
const StorageKey = "chef-ingredients"

// decodedIngredient is the wire shape the resume-parsing workflow asks the
// model to produce. Any identifier the model invents is ignored.
type decodedIngredient struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Details  string `json:"details"`
}

// DecodeBatch turns raw model output into a list of fully formed
// ingredients. An empty result is a valid outcome of attachment parsing and
// yields an empty list; malformed JSON on a non-empty result is a decode
// failure. Candidates without a name are dropped whole rather than created
// partially. Identifiers are always assigned here, never trusted from the
// model.
func DecodeBatch(raw string) ([]Ingredient, error) {
	cleaned := ai.ExtractJSON(raw)
	if cleaned == "" || cleaned == "null" {
		return []Ingredient{}, nil
	}

	var candidates []decodedIngredient
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		return nil, ai.NewDecodeError("The resume could not be parsed into ingredients. Please try again.", err)
	}

	list := make([]Ingredient, 0, len(candidates))
	for _, c := range candidates {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}

		list = append(list, Ingredient{
			ID:       uuid.NewString(),
			Name:     name,
			Category: NormalizeCategory(c.Category),
			Details:  strings.TrimSpace(c.Details),
		})
	}

	return list, nil
}

// MarshalList serializes the ingredient list for a persisting collaborator.
func MarshalList(list []Ingredient) ([]byte, error) {
	if list == nil {
		list = []Ingredient{}
	}
	return json.Marshal(list)
}

// UnmarshalList restores a previously persisted ingredient list. All fields,
// including identifiers, round-trip unchanged; only the category is coerced
// back into the closed set in case older data carries stale values.
func UnmarshalList(data []byte) ([]Ingredient, error) {
	if len(data) == 0 {
		return []Ingredient{}, nil
	}

	var list []Ingredient
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}

	for i := range list {
		if !list[i].Category.Valid() {
			list[i].Category = NormalizeCategory(string(list[i].Category))
		}
	}

	if list == nil {
		list = []Ingredient{}
	}

	return list, nil
}
