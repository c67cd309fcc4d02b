package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/anonto42/engagement/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentsPath(postID string) string {
	return "/api/v1/posts/" + postID + "/comments"
}

func TestComments_CountFollowsCreatesAndDeletes(t *testing.T) {
	ts := newTestServer(t)

	var ids []string
	for _, user := range []models.User{ts.alice, ts.bob, ts.bob} {
		rec := ts.do(http.MethodPost, commentsPath(ts.public), user.ID, `{"content":"nice post"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		view := decode[models.CommentView](t, rec)
		assert.Equal(t, user.Name, view.UserName)
		ids = append(ids, view.ID)
	}
	assert.EqualValues(t, 3, ts.post(t, ts.public).CommentCount)

	rec := ts.do(http.MethodDelete, "/api/v1/comments/"+ids[1], ts.bob.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 2, ts.post(t, ts.public).CommentCount)

	rec = ts.do(http.MethodGet, commentsPath(ts.public), ts.alice.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[models.Page[models.CommentView]](t, rec)
	assert.EqualValues(t, 2, page.Meta.TotalItems)
	assert.Len(t, page.Items, 2)
}

func TestCreateComment_PrivatePost(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, commentsPath(ts.hidden), ts.alice.ID, `{"content":"hi"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, ts.store.Calls(memory.OpCreateComment))
	assert.Zero(t, ts.store.Calls(memory.OpAdjustCounters))

	rec = ts.do(http.MethodGet, commentsPath(ts.hidden), ts.alice.ID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateComment_Errors(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPost, commentsPath(ts.public), ts.alice.ID, `{"content":""}`).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, commentsPath("missing"), ts.alice.ID, `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, commentsPath(ts.public), 999, `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, commentsPath(ts.public), 0, `{"content":"x"}`).Code)

	ts.store.InjectFault(memory.OpCreateComment, errors.New("disk full"))
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(http.MethodPost, commentsPath(ts.public), ts.alice.ID, `{"content":"x"}`).Code)
	assert.Zero(t, ts.store.Calls(memory.OpAdjustCounters), "no delta without a saved comment")
}

func TestCreateComment_CounterDriftStillSucceeds(t *testing.T) {
	ts := newTestServer(t)
	ts.store.InjectFault(memory.OpAdjustCounters, errors.New("timeout"))

	rec := ts.do(http.MethodPost, commentsPath(ts.public), ts.alice.ID, `{"content":"x"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, ts.store.DriftEntries(), 1)
	assert.Equal(t, models.CounterComment, ts.store.DriftEntries()[0].Counter)
}

func TestDeleteComment(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, commentsPath(ts.public), ts.alice.ID, `{"content":"mine"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.CommentView](t, rec).ID
	path := "/api/v1/comments/" + id

	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodDelete, path, ts.bob.ID, "").Code)
	assert.EqualValues(t, 1, ts.post(t, ts.public).CommentCount)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, path, ts.alice.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, path, ts.alice.ID, "").Code)
	assert.EqualValues(t, 0, ts.post(t, ts.public).CommentCount)

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodDelete, "/api/v1/comments/not-a-uuid", ts.alice.ID, "").Code)
}

func TestDeleteComment_ConcurrentDeleteIsNotCountedTwice(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, commentsPath(ts.public), ts.alice.ID, `{"content":"mine"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.CommentView](t, rec).ID

	// the other request deleted the row between our lookup and our delete
	ts.store.InjectFault(memory.OpDeleteComment, fmt.Errorf("comment %q: %w", id, repositories.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/api/v1/comments/"+id, ts.alice.ID, "").Code)
	assert.EqualValues(t, 1, ts.post(t, ts.public).CommentCount)
}
