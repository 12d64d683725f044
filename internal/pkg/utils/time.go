package utils

import (
	"errors"
	"healnexus-service/internal/pkg/constvars"
	"regexp"
	"strings"
	"time"
)

var (
	errInvalidSlotDate = errors.New("invalid slot date")
	errInvalidSlotTime = errors.New("invalid slot time")

	slotTimePattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9])\s*([AaPp][Mm])$`)
)

// NormalizeSlotDate accepts YYYY-MM-DD or DD_MM_YYYY and returns YYYY-MM-DD.
func NormalizeSlotDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{constvars.SlotDateLayout, constvars.SlotDateFrontendLayout} {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed.Format(constvars.SlotDateLayout), nil
		}
	}
	return "", errInvalidSlotDate
}

// NormalizeSlotTime accepts "h:mm AM" style labels in any case, with or
// without a leading zero, and returns them as "h:mm AM".
func NormalizeSlotTime(raw string) (string, error) {
	matches := slotTimePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return "", errInvalidSlotTime
	}
	hour := strings.TrimPrefix(matches[1], "0")
	return hour + ":" + matches[2] + " " + strings.ToUpper(matches[3]), nil
}

// SlotTimeMinutes returns minutes since midnight for a normalized label, or -1.
func SlotTimeMinutes(label string) int {
	parsed, err := time.Parse(constvars.SlotTimeLayout, label)
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// SlotLess orders slots by date, then by time of day.
func SlotLess(dateA, timeA, dateB, timeB string) bool {
	if dateA != dateB {
		return dateA < dateB
	}
	return SlotTimeMinutes(timeA) < SlotTimeMinutes(timeB)
}
