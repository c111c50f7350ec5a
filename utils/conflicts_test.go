package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflicts_AllergyHit(t *testing.T) {
	conflicts := CheckConflicts(
		[]string{"peanut butter sandwich"},
		ConflictProfile{Allergies: "peanut"},
	)

	require.Len(t, conflicts, 1)
	assert.Equal(t, "allergy", conflicts[0].Code)
	assert.Equal(t, ConflictHigh, conflicts[0].Severity)
	assert.Equal(t, "peanut", conflicts[0].Term)
	assert.Contains(t, conflicts[0].Message, "peanut")
}

func TestCheckConflicts_NoHit(t *testing.T) {
	conflicts := CheckConflicts(
		[]string{"banana"},
		ConflictProfile{Allergies: "peanut", DietType: "vegan"},
	)
	assert.Empty(t, conflicts)
}

func TestCheckConflicts_SubstringOverMatch(t *testing.T) {
	// "eggplant" contains "egg": a known false positive, accepted because a
	// missed allergen is worse than a spurious warning.
	conflicts := CheckConflicts(
		[]string{"grilled eggplant"},
		ConflictProfile{Allergies: "egg"},
	)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictHigh, conflicts[0].Severity)
}

func TestCheckConflicts_CaseInsensitive(t *testing.T) {
	conflicts := CheckConflicts(
		[]string{"Peanut Butter"},
		ConflictProfile{Allergies: "PEANUT"},
	)
	require.Len(t, conflicts, 1)
}

func TestCheckConflicts_RestrictionIsMedium(t *testing.T) {
	conflicts := CheckConflicts(
		[]string{"pork dumplings"},
		ConflictProfile{Restrictions: "pork"},
	)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "restriction", conflicts[0].Code)
	assert.Equal(t, ConflictMedium, conflicts[0].Severity)
}

func TestCheckConflicts_DeterministicOrder(t *testing.T) {
	conflicts := CheckConflicts(
		[]string{"peanut chicken"},
		ConflictProfile{Allergies: "peanut", DietType: "vegetarian"},
	)

	require.Len(t, conflicts, 2)
	assert.Equal(t, "allergy", conflicts[0].Code, "allergies come before diet matches")
	assert.Equal(t, "diet", conflicts[1].Code)
}

func TestDietKeywords_Supersets(t *testing.T) {
	pesc := DietKeywords("pescatarian")
	veg := DietKeywords("vegetarian")
	vegan := DietKeywords("vegan")

	assert.Contains(t, pesc, "chicken")
	assert.NotContains(t, pesc, "salmon")

	assert.Contains(t, veg, "chicken")
	assert.Contains(t, veg, "salmon")
	assert.NotContains(t, veg, "cheese")

	assert.Contains(t, vegan, "chicken")
	assert.Contains(t, vegan, "salmon")
	assert.Contains(t, vegan, "cheese")

	assert.Contains(t, DietKeywords("keto"), "sugar")
	assert.Contains(t, DietKeywords("paleo"), "bread")
	assert.Nil(t, DietKeywords("none"))
	assert.Nil(t, DietKeywords(""))
}

func TestDietKeywords_NormalizesInput(t *testing.T) {
	assert.NotNil(t, DietKeywords(" Vegan "))
}

func TestSplitTerms(t *testing.T) {
	got := SplitTerms("Peanuts, Shellfish\n dairy ,, \n")
	assert.Equal(t, []string{"peanuts", "shellfish", "dairy"}, got)

	assert.Empty(t, SplitTerms(""))
	assert.Empty(t, SplitTerms(" , ,\n"))
}

func TestConflictMessages(t *testing.T) {
	conflicts := CheckConflicts(
		[]string{"milk shake"},
		ConflictProfile{DietType: "vegan"},
	)
	msgs := ConflictMessages(conflicts)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "vegan")
}
