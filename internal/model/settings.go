package model

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Settings is the per-installation user settings singleton.
type Settings struct {
	DailyGoal     float64 `json:"dailyGoal" validate:"gt=0"`
	DarkMode      bool    `json:"darkMode"`
	Notifications bool    `json:"notifications"`
}

// UnmarshalJSON defaults a missing notifications key to true. Exports
// from the legacy browser build omit the field, and decoding it as
// false would silently disable every reminder on import.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	aux := struct {
		Notifications *bool `json:"notifications"`
		*plain
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Notifications = aux.Notifications == nil || *aux.Notifications
	return nil
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{DailyGoal: 6, DarkMode: false, Notifications: true}
}

// Valid reports whether a loaded settings value has a usable shape.
func (s Settings) Valid() bool {
	return validate.Struct(s) == nil
}

// ReminderConfig is the singleton study-reminder rule.
type ReminderConfig struct {
	Enabled   bool      `json:"enabled"`
	Frequency Frequency `json:"frequency" validate:"oneof=Daily Weekly"`
	Time      string    `json:"time" validate:"datetime=15:04"`
	Days      []string  `json:"days"` // weekday labels, used when Frequency is Weekly
}

// DefaultReminderConfig returns the out-of-the-box reminder rule:
// weekday-agnostic daily reminder at 09:00.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled:   true,
		Frequency: FrequencyDaily,
		Time:      "09:00",
		Days:      []string{"M", "T", "W", "T", "F"},
	}
}

// Valid reports whether a loaded reminder config has a usable shape.
func (c ReminderConfig) Valid() bool {
	return validate.Struct(c) == nil
}
