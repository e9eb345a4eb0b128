package datasource

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"server with message", NewServerError("list images", 503, "database unavailable"), "list images: server error 503: database unavailable"},
		{"server without message", NewServerError("get health", 500, ""), "get health: server error 500"},
		{"timeout", &Error{Kind: KindTimeout, Op: "get health", Cause: context.DeadlineExceeded}, "get health: timed out: context deadline exceeded"},
		{"connection", &Error{Kind: KindConnection, Op: "get health", Cause: errors.New("refused")}, "get health: connection failed: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify("op", nil))

	timeout := classify("op", fmt.Errorf("wrapped: %w", context.DeadlineExceeded))
	assert.True(t, IsKind(timeout, KindTimeout))
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	conn := classify("op", errors.New("connection refused"))
	assert.True(t, IsKind(conn, KindConnection))

	server := NewServerError("op", 500, "x")
	assert.Same(t, server, classify("other", server), "classified errors pass through")
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("failed to list instances: %w", NewServerError("list instances", 502, "bad gateway"))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindServer, kind)
	assert.False(t, IsKind(err, KindTimeout))

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	_, ok = KindOf(nil)
	assert.False(t, ok)
}
