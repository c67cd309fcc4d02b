package models

import "fmt"

// Counter names one of the denormalized engagement counters on a post.
type Counter string

const (
	CounterComment Counter = "comment"
	CounterLike    Counter = "like"
	CounterDislike Counter = "dislike"
)

// Counters lists every counter a post carries.
var Counters = []Counter{CounterComment, CounterLike, CounterDislike}

// Field returns the BSON field holding the counter.
func (c Counter) Field() (string, error) {
	switch c {
	case CounterComment:
		return "comment_count", nil
	case CounterLike:
		return "like_count", nil
	case CounterDislike:
		return "dislike_count", nil
	}
	return "", fmt.Errorf("unknown counter %q", string(c))
}

// CounterDelta is a signed adjustment to a single counter.
type CounterDelta struct {
	Counter Counter `json:"counter" bson:"counter"`
	Delta   int64   `json:"delta" bson:"delta"`
}
