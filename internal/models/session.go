// internal/models/session.go
package models

import "time"

// Session is a caller-scoped context holding a fixed seed so repeated
// requests within one design session draw a consistent scenario.
type Session struct {
	ID           string    `json:"id"`
	Seed         int64     `json:"seed"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	RequestCount int       `json:"requestCount"`
}

// IsExpired checks if the session has passed its inactivity timeout.
func (s *Session) IsExpired(timeout time.Duration) bool {
	return time.Since(s.LastActivity) > timeout
}

// Touch updates the last activity timestamp and bumps the request counter.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
	s.RequestCount++
}
