package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLetter(t *testing.T) {
	letter, points, ok := NormalizeLetter(" b ")
	assert.True(t, ok)
	assert.Equal(t, GradeB, letter)
	assert.Equal(t, 3, points)

	letter, points, ok = NormalizeLetter("A")
	assert.True(t, ok)
	assert.Equal(t, GradeA, letter)
	assert.Equal(t, 4, points)

	_, _, ok = NormalizeLetter("E")
	assert.False(t, ok)

	_, _, ok = NormalizeLetter("")
	assert.False(t, ok)
}

func TestLetterForScoreThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  GradeLetter
	}{
		{4.0, GradeA},
		{3.5, GradeA},
		{3.49, GradeB},
		{3.0, GradeB},
		{2.5, GradeB},
		{2.49, GradeC},
		{1.5, GradeC},
		{1.49, GradeD},
		{0.5, GradeD},
		{0.49, GradeF},
		{0, GradeF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LetterForScore(tc.score), "score %v", tc.score)
	}
}
