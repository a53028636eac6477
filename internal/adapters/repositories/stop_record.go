package repositories

import (
	"route-optimizer-service/internal/domain"
	"time"
)

// Stored form of a stop, shared by the seed file and the Redis store.
type stopRecord struct {
	Position int        `json:"position"`
	Address  string     `json:"address"`
	Earliest *time.Time `json:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty"`
}

func toRecord(s *domain.Stop) stopRecord {
	return stopRecord{
		Position: s.Position,
		Address:  s.Address,
		Earliest: s.Window.Earliest,
		Latest:   s.Window.Latest,
	}
}

func (r stopRecord) toStop() *domain.Stop {
	return &domain.Stop{
		Position: r.Position,
		Address:  r.Address,
		Window:   domain.TimeWindow{Earliest: r.Earliest, Latest: r.Latest},
	}
}
