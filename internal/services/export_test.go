package services

import "time"

// SetClock overrides the analytics clock in tests.
func (s *AnalyticsService) SetClock(now func() time.Time) {
	s.now = now
}

var MinorUnits = minorUnits
