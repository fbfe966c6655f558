package model

import (
	"strings"
	"time"
)

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Frequency is how often something repeats (task recurrence or study reminders).
type Frequency string

const (
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// Recurrence describes an optional repeat rule on a task.
type Recurrence struct {
	Frequency Frequency `json:"frequency"`
	EndDate   string    `json:"endDate,omitempty"`
}

// Task is a single planner item.
//
// RawDate (full ISO timestamp) is authoritative for ordering and
// day-matching; Date is only a cached display label ("Today",
// "Tomorrow" or YYYY-MM-DD).
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Subject     string       `json:"subject"`
	Time        string       `json:"time"` // 12-hour display string, e.g. "10:00 AM"
	Priority    Priority     `json:"priority"`
	Completed   bool         `json:"completed"`
	Date        string       `json:"date,omitempty"`
	RawDate     string       `json:"rawDate,omitempty"`
	Tag         string       `json:"tag,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Recurrence  *Recurrence  `json:"recurrence,omitempty"`
}

// DueOn reports whether the task is due on the given local calendar
// date (YYYY-MM-DD). The "Today" display label counts as due today;
// otherwise the RawDate day component wins, so a stale "Tomorrow"
// label cannot mask a task whose date has since arrived.
func (t Task) DueOn(today string) bool {
	if t.Date == "Today" {
		return true
	}
	if t.RawDate != "" {
		day, _, _ := strings.Cut(t.RawDate, "T")
		return day == today
	}
	return t.Date == today
}

// NewRawDate formats a timestamp the way task RawDate values are stored.
func NewRawDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
