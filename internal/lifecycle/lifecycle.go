// Package lifecycle defines the complaint status values and how each one is shown.
//
// Any status may move to any other; the policy only limits the set of values an
// admin can assign. Display is total so that unknown values read back from a
// hand-edited ledger still render.
package lifecycle

import (
	"civicconnect/backend/internal/models"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilterAll selects every complaint regardless of status.
const FilterAll = "all"

var ErrUnknownStatus = errors.New("unknown complaint status")

var statuses = []models.Status{
	models.StatusPending,
	models.StatusInProgress,
	models.StatusResolved,
}

// Badge is the glyph and colour category a dashboard uses for a status.
type Badge struct {
	Glyph string `json:"glyph"`
	Color string `json:"color"`
	Label string `json:"label"`
}

var badges = map[models.Status]Badge{
	models.StatusPending:    {Glyph: "clock", Color: "orange"},
	models.StatusInProgress: {Glyph: "alert-circle", Color: "blue"},
	models.StatusResolved:   {Glyph: "check-circle", Color: "green"},
}

var unknownBadge = Badge{Glyph: "clock", Color: "gray"}

// Initial is the status every new complaint starts in.
func Initial() models.Status { return models.StatusPending }

// Statuses returns the assignable statuses in lifecycle order.
func Statuses() []models.Status {
	return append([]models.Status(nil), statuses...)
}

func IsKnown(s models.Status) bool {
	_, ok := badges[s]
	return ok
}

// Parse accepts a status name as typed by an admin and returns the canonical value.
func Parse(s string) (models.Status, error) {
	status := models.Status(strings.ToLower(strings.TrimSpace(s)))
	if !IsKnown(status) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// Display returns the badge for s, falling back to a neutral badge for unknown values.
func Display(s models.Status) Badge {
	b, ok := badges[s]
	if !ok {
		b = unknownBadge
	}
	b.Label = Label(s)
	return b
}

// Label capitalises the first letter only: "in-progress" becomes "In-progress".
func Label(s models.Status) string {
	str := string(s)
	if str == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(str)
	return cases.Upper(language.English).String(str[:size]) + str[size:]
}
