package ingredients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		expect Category
	}{
		{"skill", CategorySkill},
		{"  Experience ", CategoryExperience},
		{"EDUCATION", CategoryEducation},
		{"certification", CategoryCertification},
		{"project", CategoryProject},
		{"Internship", CategoryExperience},
		{"work history", CategoryExperience},
		{"High School", CategoryEducation},
		{"Bachelor's Degree", CategoryEducation},
		{"side project", CategoryProject},
		{"volunteering", CategorySkill},
		{"", CategorySkill},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, NormalizeCategory(tt.raw))
		})
	}
}

func TestNewAssignsIdentifier(t *testing.T) {
	first := New("Go", CategorySkill, "")
	second := New("Go", CategorySkill, "")

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestNewCoercesUnknownCategory(t *testing.T) {
	ing := New("Internship at Acme", Category("Summer Internship"), "")
	assert.Equal(t, CategoryExperience, ing.Category)
}

func TestDecodeBatchAssignsFreshUniqueIdentifiers(t *testing.T) {
	raw := `[
		{"id": "model-made-this-up", "name": "Go", "category": "skill"},
		{"id": "model-made-this-up", "name": "Acme Corp", "category": "work experience", "details": "Backend engineer"}
	]`

	list, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.NotEqual(t, "model-made-this-up", list[0].ID)
	assert.NotEqual(t, "model-made-this-up", list[1].ID)
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.Equal(t, CategoryExperience, list[1].Category)
	assert.Equal(t, "Backend engineer", list[1].Details)
}

func TestDecodeBatchEmptyResultIsEmptyList(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "[]", "```json\n[]\n```"} {
		list, err := DecodeBatch(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Empty(t, list, "input %q", raw)
	}
}

func TestDecodeBatchMalformedJSONIsDecodeError(t *testing.T) {
	_, err := DecodeBatch("{not json")
	require.Error(t, err)
}

func TestDecodeBatchDropsNamelessCandidates(t *testing.T) {
	raw := `[{"name": "  ", "category": "skill"}, {"name": "Go", "category": "skill"}]`

	list, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Go", list[0].Name)
}

func TestDecodeBatchStripsCodeFences(t *testing.T) {
	raw := "```json\n[{\"name\": \"Go\", \"category\": \"skill\"}]\n```"

	list, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestListRoundTrip(t *testing.T) {
	original := []Ingredient{
		New("Go", CategorySkill, "5 years"),
		New("Acme Corp", CategoryExperience, "Backend engineer"),
	}

	data, err := MarshalList(original)
	require.NoError(t, err)

	restored, err := UnmarshalList(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestUnmarshalListEmptyData(t *testing.T) {
	list, err := UnmarshalList(nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
