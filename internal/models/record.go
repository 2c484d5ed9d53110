package models

import "time"

// TurnRecord is a flattened view of one resolved turn, kept for the session journal.
type TurnRecord struct {
	Turn       int
	Action     string
	Narrative  string
	Path       string
	Roll       int
	Difficulty int
	Success    bool
	Health     int
	Gold       int
	Location   string
	CreatedAt  time.Time
}
