package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/balkashynov/lifetrack/internal/models"
)

// ParsedTask represents a task parsed from quick-add syntax
type ParsedTask struct {
	Title     string
	Domain    string
	Points    *float64
	Frequency models.Frequency
	Errors    []string
}

var (
	domainRegex    = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	pointsRegex    = regexp.MustCompile(`(?:^|\s)\+(\S+)`)
	frequencyRegex = regexp.MustCompile(`~([a-zA-Z_-]+)`)
)

// ParseTask extracts metadata from a task title using natural syntax
// Syntax: "Task title @domain +points ~frequency"
func ParseTask(input string) ParsedTask {
	result := ParsedTask{Errors: []string{}}

	// Extract domain (@domain-id or @name)
	if m := domainRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Domain = m[1]
		input = domainRegex.ReplaceAllString(input, "")
	}

	// Extract points (+3, +0.5)
	if m := pointsRegex.FindStringSubmatch(input); len(m) > 1 {
		points, err := strconv.ParseFloat(m[1], 64)
		if err != nil || models.ValidatePoints(points) != nil {
			result.Errors = append(result.Errors, "Invalid points '"+m[1]+"'. Use a non-negative number")
		} else {
			result.Points = &points
		}
		input = pointsRegex.ReplaceAllString(input, " ")
	}

	// Extract frequency (~daily, ~weekly, ~once)
	if m := frequencyRegex.FindStringSubmatch(input); len(m) > 1 {
		freq, err := models.ParseFrequency(strings.ToLower(m[1]))
		if err != nil {
			result.Errors = append(result.Errors, "Invalid frequency '"+m[1]+"'. Use: daily, weekly or one_time")
		} else {
			result.Frequency = freq
		}
		input = frequencyRegex.ReplaceAllString(input, "")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}
