package service

import "time"

// SetNow overrides the clock used for completion timestamps in tests.
func (s *StopService) SetNow(now func() time.Time) { s.now = now }
