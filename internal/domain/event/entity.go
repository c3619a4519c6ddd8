package event

import "time"

// Event は会場で開催される公演。座席は会場の配置を引き継ぐ
type Event struct {
	ID       int64
	VenueID  int64
	Name     string
	StartsAt time.Time
}
