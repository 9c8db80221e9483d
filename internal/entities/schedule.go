package entities

import "encoding/json"

// DayWindow is a provider's working window for one weekday, as
// naive "HH:MM" times of day.
type DayWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklySchedule maps lowercase day names ("monday".."sunday") to the
// window the provider works that day. A missing day means the provider
// is unavailable on it.
type WeeklySchedule map[string]DayWindow

// DefaultWeeklySchedule is used when a provider has not configured a
// schedule: weekdays 09:00-17:00, weekends 10:00-16:00.
func DefaultWeeklySchedule() WeeklySchedule {
	return WeeklySchedule{
		"monday":    {Start: "09:00", End: "17:00"},
		"tuesday":   {Start: "09:00", End: "17:00"},
		"wednesday": {Start: "09:00", End: "17:00"},
		"thursday":  {Start: "09:00", End: "17:00"},
		"friday":    {Start: "09:00", End: "17:00"},
		"saturday":  {Start: "10:00", End: "16:00"},
		"sunday":    {Start: "10:00", End: "16:00"},
	}
}

// ParseWeeklySchedule decodes the JSON schedule stored on a provider
// profile. Empty, missing, or malformed input falls back to the
// default schedule.
func ParseWeeklySchedule(raw string) WeeklySchedule {
	if raw == "" {
		return DefaultWeeklySchedule()
	}
	var ws WeeklySchedule
	if err := json.Unmarshal([]byte(raw), &ws); err != nil || len(ws) == 0 {
		return DefaultWeeklySchedule()
	}
	return ws
}
