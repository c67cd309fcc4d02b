package engagement

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/anonto42/engagement/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// PostLister lists and reads posts for reconciliation.
type PostLister interface {
	PostFinder
	ListPostIDs(ctx context.Context) ([]string, error)
}

// ReactionTally counts a post's reactions per type.
type ReactionTally interface {
	CountReactionsByPost(ctx context.Context, postID string) (map[models.ReactionType]int64, error)
}

// CommentTally counts a post's comments.
type CommentTally interface {
	CountCommentsByPost(ctx context.Context, postID string) (int64, error)
}

// DriftLog is the drift log as the reconciler sees it.
type DriftLog interface {
	PendingPostIDs(ctx context.Context) ([]string, error)
	ClearDrift(ctx context.Context, postIDs []string) error
}

// CounterDrift is a counter whose stored value differs from its record count.
type CounterDrift struct {
	PostID  string         `json:"post_id"`
	Counter models.Counter `json:"counter"`
	Stored  int64          `json:"stored"`
	Actual  int64          `json:"actual"`
}

// Delta is the adjustment that brings the counter to its actual value.
func (d CounterDrift) Delta() int64 {
	return d.Actual - d.Stored
}

// ReconcileReport summarizes a reconciliation run.
type ReconcileReport struct {
	Checked int            `json:"checked"`
	Missing []string       `json:"missing,omitempty"`
	Drifts  []CounterDrift `json:"drifts"`
	Applied bool           `json:"applied"`
}

// Reconciler recounts reactions and comments and corrects drifted counters.
//
// Corrections go through AdjustCounters like every other counter change, so
// deltas from live toggles are never overwritten. A recount taken while
// toggles are in flight can still be off by those toggles; run it against
// quiet posts or repeat it until it reports nothing.
type Reconciler struct {
	posts       PostLister
	reactions   ReactionTally
	comments    CommentTally
	counters    CounterAdjuster
	drift       DriftLog
	concurrency int
}

// NewReconciler creates a Reconciler. drift may be nil when the pending mode
// is not used.
func NewReconciler(posts PostLister, reactions ReactionTally, comments CommentTally, counters CounterAdjuster, drift DriftLog, concurrency int) *Reconciler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Reconciler{
		posts:       posts,
		reactions:   reactions,
		comments:    comments,
		counters:    counters,
		drift:       drift,
		concurrency: concurrency,
	}
}

// ReconcileAll checks every post.
func (r *Reconciler) ReconcileAll(ctx context.Context, apply bool) (*ReconcileReport, error) {
	ids, err := r.posts.ListPostIDs(ctx)
	if err != nil {
		return nil, classify("list_posts", "post", "", err)
	}
	return r.Reconcile(ctx, ids, apply)
}

// ReconcilePending checks the posts named in the drift log. After a
// successful apply their drift entries are cleared.
func (r *Reconciler) ReconcilePending(ctx context.Context, apply bool) (*ReconcileReport, error) {
	if r.drift == nil {
		return nil, &Error{Code: CodeInvalidArgument, Op: "reconcile_pending", Err: errors.New("no drift log configured")}
	}
	ids, err := r.drift.PendingPostIDs(ctx)
	if err != nil {
		return nil, classify("pending_drift", "post", "", err)
	}
	report, err := r.Reconcile(ctx, ids, apply)
	if err != nil {
		return nil, err
	}
	if apply && len(ids) > 0 {
		if err := r.drift.ClearDrift(ctx, ids); err != nil {
			return report, classify("clear_drift", "post", "", err)
		}
	}
	return report, nil
}

// Reconcile checks the given posts. With apply set, each drifted post gets one
// AdjustCounters call carrying all of its corrections.
func (r *Reconciler) Reconcile(ctx context.Context, postIDs []string, apply bool) (*ReconcileReport, error) {
	report := &ReconcileReport{Applied: apply, Drifts: []CounterDrift{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, id := range postIDs {
		id := id
		g.Go(func() error {
			drifts, err := r.check(gctx, id)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					mu.Lock()
					report.Missing = append(report.Missing, id)
					mu.Unlock()
					return nil
				}
				return err
			}
			if apply && len(drifts) > 0 {
				deltas := make([]models.CounterDelta, len(drifts))
				for i, d := range drifts {
					deltas[i] = models.CounterDelta{Counter: d.Counter, Delta: d.Delta()}
				}
				if err := r.counters.AdjustCounters(gctx, id, deltas...); err != nil {
					return classify("adjust_counters", "post", id, err)
				}
				logs.LogJSON("INFO", "counters reconciled", map[string]interface{}{
					"post_id": id,
					"drifts":  drifts,
				})
			}
			mu.Lock()
			report.Checked++
			report.Drifts = append(report.Drifts, drifts...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(report.Missing)
	sort.Slice(report.Drifts, func(i, j int) bool {
		if report.Drifts[i].PostID != report.Drifts[j].PostID {
			return report.Drifts[i].PostID < report.Drifts[j].PostID
		}
		return report.Drifts[i].Counter < report.Drifts[j].Counter
	})
	return report, nil
}

func (r *Reconciler) check(ctx context.Context, postID string) ([]CounterDrift, error) {
	post, err := r.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, classify("find_post", "post", postID, err)
	}
	byType, err := r.reactions.CountReactionsByPost(ctx, postID)
	if err != nil {
		return nil, classify("count_reactions", "post", postID, err)
	}
	comments, err := r.comments.CountCommentsByPost(ctx, postID)
	if err != nil {
		return nil, classify("count_comments", "post", postID, err)
	}

	actual := map[models.Counter]int64{
		models.CounterComment: comments,
		models.CounterLike:    byType[models.ReactionLike],
		models.CounterDislike: byType[models.ReactionDislike],
	}
	var drifts []CounterDrift
	for _, c := range models.Counters {
		if stored := post.Counter(c); stored != actual[c] {
			drifts = append(drifts, CounterDrift{PostID: postID, Counter: c, Stored: stored, Actual: actual[c]})
		}
	}
	return drifts, nil
}
