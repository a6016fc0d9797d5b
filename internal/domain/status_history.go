package domain

import "time"

type StatusChangeEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	PreviousStatus Status    `json:"previousStatus"`
	NewStatus      Status    `json:"newStatus"`
	Actor          string    `json:"actor"`
}
