// Package model contains domain records passed between pipeline stages.
package model

import "time"

// Date is a canonical calendar date with an explicit missing marker.
// The zero value is missing.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a present Date for t.
func NewDate(t time.Time) Date {
	return Date{Time: t, Valid: true}
}

// Before reports whether d is strictly earlier than other.
// Either side missing reports false.
func (d Date) Before(other Date) bool {
	return d.Valid && other.Valid && d.Time.Before(other.Time)
}

// After reports whether d is strictly later than other.
// Either side missing reports false.
func (d Date) After(other Date) bool {
	return d.Valid && other.Valid && d.Time.After(other.Time)
}

// String renders the date as ISO-8601, or "." for missing.
func (d Date) String() string {
	if !d.Valid {
		return "."
	}
	return d.Time.Format("2006-01-02")
}

// DaysBetween returns the whole days elapsed from a to b.
// Both dates must be present; callers guard with Valid.
func DaysBetween(a, b Date) int {
	return int(b.Time.Sub(a.Time).Hours() / 24)
}

// Cause is one verbal-autopsy cause-of-death assignment.
type Cause struct {
	Code       string
	Likelihood string
}

// Record is one surveillance event tied to an individual, a site and a
// date. Records are immutable once built; normalization constructs new
// records rather than mutating raw input.
type Record struct {
	Seq             int64  // record sequence number, unique and strictly increasing
	Individual      string // individual identifier, the grouping key
	Country         string
	Centre          string
	Location        string
	Sex             string
	BirthDate       Date
	Code            string // event code from the closed vocabulary
	EventDate       Date
	ObservationDate Date
	DeliveryID      string // present for delivery and birth events
	EventCount      string
	EventNumber     string
	Causes          []Cause // up to three verbal-autopsy cause/likelihood pairs
}
