// Package engagement keeps the engagement counters of a post (comments,
// likes, dislikes) consistent with the comment and reaction records they
// summarize.
//
// The ReactionEngine implements the reaction toggle: a user holds at most one
// reaction per post, and a toggle creates, switches or removes it. The
// CommentCounter follows comment inserts and deletes. Both only ever change
// counters through an atomic add-delta primitive, and only after the record
// write that justifies the delta has committed.
//
// The record write and the counter delta are two separate store operations.
// If the second fails the counter lags its records ("drift"); the failure is
// logged, written to the drift log and returned as ErrCounterDrift. The
// Reconciler recounts records and corrects drifted counters.
//
// Nothing here holds in-process state between calls: an engine is safe for
// concurrent use by any number of request goroutines.
package engagement
