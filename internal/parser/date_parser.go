package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/lifetrack/internal/models"
)

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	daysAgoRegex   = regexp.MustCompile(`^(\d+)\s*(?:d|day|days)\s+ago$`)
	offsetRegex    = regexp.MustCompile(`^([+-]\d+)$`)
)

// ParseDate turns a user date expression into a YYYY-MM-DD key relative to
// today (itself a date key).
// Supported formats:
// - "today", "yesterday", "tomorrow" (empty means today)
// - yyyy-mm-dd (e.g., "2024-12-15")
// - dd/mm/yyyy (e.g., "15/12/2024")
// - X days ago (e.g., "3 days ago", "1 day ago")
// - signed offsets (e.g., "-1", "+2")
func ParseDate(input, today string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return models.AddDays(today, -1)
	case "tomorrow":
		return models.AddDays(today, 1)
	}

	if t, err := models.ParseDateKey(input); err == nil {
		return models.DateKey(t), nil
	}

	if key, err := parseSlashDate(input); err == nil {
		return key, nil
	}

	if m := daysAgoRegex.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", fmt.Errorf("invalid number")
		}
		return models.AddDays(today, -n)
	}

	if m := offsetRegex.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", fmt.Errorf("invalid offset")
		}
		return models.AddDays(today, n)
	}

	return "", fmt.Errorf("invalid date %q. Use: today, yesterday, yyyy-mm-dd, dd/mm/yyyy, X days ago, or -N", input)
}

// parseSlashDate parses dd/mm/yyyy format
func parseSlashDate(input string) (string, error) {
	matches := slashDateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return "", fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return "", fmt.Errorf("month must be between 1 and 12")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return "", fmt.Errorf("invalid date")
	}

	return models.DateKey(date), nil
}

// FormatDate renders a date key for display relative to today.
func FormatDate(key, today string) string {
	t, err := models.ParseDateKey(key)
	if err != nil {
		return key
	}
	now, err := models.ParseDateKey(today)
	if err != nil {
		return key
	}

	daysDiff := int(now.Sub(t).Hours() / 24)
	label := t.Format("Mon 02 Jan 2006")

	switch {
	case daysDiff == 0:
		return fmt.Sprintf("Today (%s)", label)
	case daysDiff == 1:
		return fmt.Sprintf("Yesterday (%s)", label)
	case daysDiff == -1:
		return fmt.Sprintf("Tomorrow (%s)", label)
	case daysDiff > 1 && daysDiff <= 7:
		return fmt.Sprintf("%s (%d days ago)", label, daysDiff)
	default:
		return label
	}
}
