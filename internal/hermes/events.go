package hermes

import "time"

type SessionCreatedEvent struct {
	SessionID  string    `json:"session_id"`
	Categories []string  `json:"categories"`
	Timestamp  time.Time `json:"timestamp"`
}

type RankChangedEvent struct {
	SessionID string    `json:"session_id"`
	Category  string    `json:"category"`
	OldRank   int       `json:"old_rank"`
	NewRank   int       `json:"new_rank"`
	Order     []string  `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}

type CategoryWeight struct {
	Name   string  `json:"name"`
	Rank   int     `json:"rank"`
	Weight float64 `json:"weight"`
}

type WeightsCalculatedEvent struct {
	SessionID string           `json:"session_id"`
	Rescaled  bool             `json:"rescaled"`
	Weights   []CategoryWeight `json:"weights"`
	Timestamp time.Time        `json:"timestamp"`
}
