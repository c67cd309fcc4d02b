package models

import "time"

// DriftEntry records a counter delta that was not applied after its source
// record write had already committed.
type DriftEntry struct {
	PostID    string    `json:"post_id" bson:"post_id"`
	Counter   Counter   `json:"counter" bson:"counter"`
	Delta     int64     `json:"delta" bson:"delta"`
	Reason    string    `json:"reason" bson:"reason"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
