package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// PlaySession is one play attempt, bounded by explicit start/finish calls.
// It opens with FinishedAt unset and transitions exactly once to finished.
type PlaySession struct {
	SessionID  string
	UserID     string
	GameID     string
	StartedAt  time.Time
	FinishedAt *time.Time
	Reason     string
	Summary    []byte
	StarsTotal int
	RawKey     string
}

// IsFinished reports whether the session has reached its terminal state
func (s *PlaySession) IsFinished() bool {
	return s.FinishedAt != nil
}

// SessionSummary is the game-reported outcome of a session. Clients either
// report an explicit stars_total or a per-level breakdown; Raw preserves the
// original document for archival.
type SessionSummary struct {
	StarsTotal   *float64
	StarsByLevel []interface{}
	Raw          json.RawMessage
}

// UnmarshalJSON decodes the recognized fields and keeps the raw document
func (s *SessionSummary) UnmarshalJSON(data []byte) error {
	var aux struct {
		StarsTotal   *float64      `json:"stars_total"`
		StarsByLevel []interface{} `json:"stars_by_level"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.StarsTotal = aux.StarsTotal
	s.StarsByLevel = aux.StarsByLevel
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Stars computes the star total for the session: an explicit stars_total
// (clamped to >= 0, floored), else the sum of numeric stars_by_level
// entries, else 0.
func (s SessionSummary) Stars() int {
	if s.StarsTotal != nil {
		v := int(*s.StarsTotal)
		if v < 0 {
			return 0
		}
		return v
	}
	total := 0
	for _, entry := range s.StarsByLevel {
		total += coerceInt(entry)
	}
	return total
}

// RawJSON returns the original summary document, or an empty object when the
// client sent none
func (s SessionSummary) RawJSON() []byte {
	if len(s.Raw) == 0 {
		return []byte("{}")
	}
	return s.Raw
}

// coerceInt converts a decoded JSON value to an int the way game clients
// expect: numbers are floored, numeric strings parsed, everything else is 0
func coerceInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return int(f)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}
