package model

import "time"

// StudyLog records one study session. Logs are append-only: the UI
// creates them and never edits them afterwards.
type StudyLog struct {
	ID        string  `json:"id"`
	Subject   string  `json:"subject"`   // soft reference by name, may dangle
	Duration  float64 `json:"duration"`  // hours
	Date      string  `json:"date"`      // local calendar date of the session, YYYY-MM-DD
	Timestamp int64   `json:"timestamp"` // creation time, epoch millis
}

// CreatedAt returns the log's creation time in the given location.
func (l StudyLog) CreatedAt(loc *time.Location) time.Time {
	return time.UnixMilli(l.Timestamp).In(loc)
}
