package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommentAdd(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, NewMemberService(store, zap.NewNop()).Seed(ctx, DefaultMembers))
	members, err := store.ListMembers(ctx)
	require.NoError(t, err)
	svc := NewCommentService(store, store, zap.NewNop())

	c, err := svc.Add(ctx, AddCommentRequest{MemberID: members[0].ID, Date: "2025-08-23", Comment: "  weekend plans  "})
	require.NoError(t, err)
	assert.Equal(t, "weekend plans", c.Comment)
	assert.Equal(t, members[0].Name, c.MemberName)

	_, err = svc.Add(ctx, AddCommentRequest{MemberID: members[1].ID, MemberName: members[1].Name, Date: "2025-08-20", Comment: "see you"})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byDate, err := svc.ListByDate(ctx, "2025-08-23")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, c.ID, byDate[0].ID)
}

func TestCommentValidation(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommentService(store, store, zap.NewNop())
	ctx := context.Background()

	cases := []AddCommentRequest{
		{MemberID: "", MemberName: "x", Date: "2025-08-20", Comment: "hi"},
		{MemberID: "m", MemberName: "x", Date: "20.08.2025", Comment: "hi"},
		{MemberID: "m", MemberName: "x", Date: "2025-08-20", Comment: "   "},
		{MemberID: "m", MemberName: "x", Date: "2025-08-20", Comment: strings.Repeat("a", MaxCommentLength+1)},
		{MemberID: "unknown", Date: "2025-08-20", Comment: "hi"},
	}
	for _, req := range cases {
		_, err := svc.Add(ctx, req)
		assert.ErrorIs(t, err, model.ErrValidation)
	}

	_, err := svc.Add(ctx, AddCommentRequest{MemberID: "m", MemberName: "x", Date: "2025-08-20", Comment: strings.Repeat("ы", MaxCommentLength)})
	assert.NoError(t, err)

	_, err = svc.ListByDate(ctx, "bad")
	assert.ErrorIs(t, err, model.ErrValidation)
}
