package models

import "time"

// QueueStatus is the JSON view of the queue stores served on /status
type QueueStatus struct {
	Pending     int       `json:"pending"`
	Past        int       `json:"past"`
	Rejected    int       `json:"rejected"`
	Suggestions int       `json:"suggestions"`
	PostHour    int       `json:"post_hour"`
	NextPostAt  time.Time `json:"next_post_at"`
	CheckedAt   time.Time `json:"checked_at"`
}
