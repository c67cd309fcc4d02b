package engagement

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"not found", fmt.Errorf("post: %w", repositories.ErrNotFound), CodeNotFound},
		{"duplicate", fmt.Errorf("insert: %w", repositories.ErrDuplicate), CodeConflict},
		{"deadline", context.DeadlineExceeded, CodeStoreUnavailable},
		{"other", errors.New("dial tcp: connection refused"), CodeStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", "post", "1", tt.err)
			assert.Equal(t, tt.want, err.Code)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", &Error{Code: CodeConflict, Op: "insert_reaction"})

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsRetryable(err))
	assert.Equal(t, CodeConflict, CodeOf(err))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	err := &Error{Code: CodeNotFound, Op: "find_post", Resource: "post", ID: "abc", Err: repositories.ErrNotFound}
	assert.Equal(t, `NOT_FOUND: post "abc" (op=find_post): `+repositories.ErrNotFound.Error(), err.Error())
	assert.Equal(t, "CONFLICT", (&Error{Code: CodeConflict}).Error())
}
