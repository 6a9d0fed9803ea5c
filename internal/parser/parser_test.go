package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/lifetrack/internal/models"
)

func TestParseDate(t *testing.T) {
	const today = "2024-03-01"

	tests := []struct {
		input string
		want  string
	}{
		{"", "2024-03-01"},
		{"today", "2024-03-01"},
		{" Yesterday ", "2024-02-29"},
		{"tomorrow", "2024-03-02"},
		{"2023-12-31", "2023-12-31"},
		{"29/02/2024", "2024-02-29"},
		{"1/3/2024", "2024-03-01"},
		{"3 days ago", "2024-02-27"},
		{"1 day ago", "2024-02-29"},
		{"-1", "2024-02-29"},
		{"+2", "2024-03-03"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"31/02/2024", "13/13/2024", "2024-02-30", "soon", "3 weeks ago"} {
		_, err := ParseDate(input, "2024-03-01")
		assert.Error(t, err, input)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Today (Fri 01 Mar 2024)", FormatDate("2024-03-01", "2024-03-01"))
	assert.Equal(t, "Yesterday (Thu 29 Feb 2024)", FormatDate("2024-02-29", "2024-03-01"))
	assert.Equal(t, "Mon 26 Feb 2024 (4 days ago)", FormatDate("2024-02-26", "2024-03-01"))
	assert.Equal(t, "Mon 01 Jan 2024", FormatDate("2024-01-01", "2024-03-01"))
	assert.Equal(t, "garbage", FormatDate("garbage", "2024-03-01"))
}

func TestParseTask(t *testing.T) {
	p := ParseTask("Meditate 10 minutes @spiritual +2.5 ~weekly")
	assert.Empty(t, p.Errors)
	assert.Equal(t, "Meditate 10 minutes", p.Title)
	assert.Equal(t, "spiritual", p.Domain)
	require.NotNil(t, p.Points)
	assert.Equal(t, 2.5, *p.Points)
	assert.Equal(t, models.FrequencyWeekly, p.Frequency)
}

func TestParseTask_PlainTitle(t *testing.T) {
	p := ParseTask("  Drink   water ")
	assert.Equal(t, "Drink water", p.Title)
	assert.Empty(t, p.Domain)
	assert.Nil(t, p.Points)
	assert.Empty(t, p.Frequency)
}

func TestParseTask_Errors(t *testing.T) {
	p := ParseTask("Save money +lots ~monthly")
	assert.Len(t, p.Errors, 2)
	assert.Equal(t, "Save money", p.Title)
	assert.Nil(t, p.Points)
}

func TestParseTask_RejectsNonFinitePoints(t *testing.T) {
	tests := []string{"+NaN", "+Inf", "+inf", "+-1", "+1e400"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			p := ParseTask("Read @physical " + in)
			assert.Nil(t, p.Points)
			assert.Len(t, p.Errors, 1)
			assert.Equal(t, "Read", p.Title)
		})
	}
}

func TestParseTask_KeepsPlusInsideWords(t *testing.T) {
	p := ParseTask("Learn C++ +3")
	require.NotNil(t, p.Points)
	assert.Equal(t, 3.0, *p.Points)
	assert.Equal(t, "Learn C++", p.Title)
}
