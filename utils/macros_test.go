package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustedCalorieTarget(t *testing.T) {
	// Losing 0.5 kg/week is a 550 kcal/day deficit.
	got, err := AdjustedCalorieTarget(2400, -0.5)
	require.NoError(t, err)
	assert.Equal(t, 1850.0, got)

	// Gaining adds the surplus.
	got, err = AdjustedCalorieTarget(2400, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2950.0, got)

	// Maintenance passes through.
	got, err = AdjustedCalorieTarget(2400, 0)
	require.NoError(t, err)
	assert.Equal(t, 2400.0, got)
}

func TestAdjustedCalorieTarget_Floor(t *testing.T) {
	got, err := AdjustedCalorieTarget(1500, -0.5)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, got, "targets never drop below the 1200 kcal floor")
}

func TestAdjustedCalorieTarget_Rejections(t *testing.T) {
	_, err := AdjustedCalorieTarget(0, -0.5)
	assert.Error(t, err)

	_, err = AdjustedCalorieTarget(2400, -1.5)
	assert.Error(t, err, "faster than 1 kg/week is out of range")

	_, err = AdjustedCalorieTarget(2400, 1.5)
	assert.Error(t, err)
}

func TestSuggestMacroTargets(t *testing.T) {
	got, err := SuggestMacroTargets(2000)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, got.Calories)
	assert.Equal(t, 150.0, got.Protein) // 30% at 4 kcal/g
	assert.Equal(t, 200.0, got.Carbs)   // 40% at 4 kcal/g
	assert.Equal(t, 67.0, got.Fat)      // 30% at 9 kcal/g

	_, err = SuggestMacroTargets(0)
	assert.Error(t, err)
}
