package engagement

import "github.com/anonto42/engagement/backend/internal/models"

// OutcomeKind names the branch a toggle took.
type OutcomeKind string

const (
	OutcomeCreated OutcomeKind = "created"
	OutcomeUpdated OutcomeKind = "updated"
	OutcomeRemoved OutcomeKind = "removed"
)

// ReactionOutcome is the result of a toggle. It is one of Created, Updated or
// Removed; the set is closed.
type ReactionOutcome interface {
	Kind() OutcomeKind
	isReactionOutcome()
}

// Created means the user had no reaction and now holds Reaction.
type Created struct {
	Reaction models.ReactionView
}

// Updated means the user's reaction switched from Previous to Reaction.Type.
type Updated struct {
	Reaction models.ReactionView
	Previous models.ReactionType
}

// Removed means the user's reaction of Type was deleted.
type Removed struct {
	ReactionID string
	PostID     string
	UserID     uint
	Type       models.ReactionType
}

func (Created) Kind() OutcomeKind { return OutcomeCreated }
func (Updated) Kind() OutcomeKind { return OutcomeUpdated }
func (Removed) Kind() OutcomeKind { return OutcomeRemoved }

func (Created) isReactionOutcome() {}
func (Updated) isReactionOutcome() {}
func (Removed) isReactionOutcome() {}

// CounterDeltas returns the counter adjustments a toggle outcome implies:
// one delta for Created and Removed, two for Updated.
func CounterDeltas(o ReactionOutcome) []models.CounterDelta {
	switch o := o.(type) {
	case Created:
		return []models.CounterDelta{{Counter: o.Reaction.Type.Counter(), Delta: 1}}
	case Removed:
		return []models.CounterDelta{{Counter: o.Type.Counter(), Delta: -1}}
	case Updated:
		return []models.CounterDelta{
			{Counter: o.Previous.Counter(), Delta: -1},
			{Counter: o.Reaction.Type.Counter(), Delta: 1},
		}
	}
	return nil
}
