// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package comment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/pkg/pagination"
)

// memoryStore is an in-memory Store for service tests.
type memoryStore struct {
	comments map[int64]*Comment
	likes    map[int64]map[int64]bool
	nextID   int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		comments: map[int64]*Comment{},
		likes:    map[int64]map[int64]bool{},
		nextID:   1,
	}
}

func (store *memoryStore) Create(_ context.Context, comment *Comment) error {
	comment.ID = store.nextID
	store.nextID++
	clone := *comment
	store.comments[comment.ID] = &clone
	return nil
}

func (store *memoryStore) FindByID(_ context.Context, id int64) (*Comment, error) {
	comment, ok := store.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	clone := *comment
	return &clone, nil
}

func (store *memoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := store.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(store.comments, id)
	return nil
}

func (store *memoryStore) ListByTarget(_ context.Context, target Target, _ pagination.Params) ([]*Comment, int, error) {
	var matches []*Comment
	for _, comment := range store.comments {
		if comment.ParentID != nil {
			continue
		}
		if target.QuestionID > 0 && comment.QuestionID != nil && *comment.QuestionID == target.QuestionID {
			matches = append(matches, comment)
		}
		if target.AnswerID > 0 && comment.AnswerID != nil && *comment.AnswerID == target.AnswerID {
			matches = append(matches, comment)
		}
	}
	return matches, len(matches), nil
}

func (store *memoryStore) Replies(_ context.Context, parentID int64) ([]*Comment, error) {
	var replies []*Comment
	for _, comment := range store.comments {
		if comment.ParentID != nil && *comment.ParentID == parentID {
			replies = append(replies, comment)
		}
	}
	return replies, nil
}

func (store *memoryStore) Like(_ context.Context, commentID, userID int64) (bool, error) {
	if store.likes[commentID] == nil {
		store.likes[commentID] = map[int64]bool{}
	}
	if store.likes[commentID][userID] {
		return false, nil
	}
	store.likes[commentID][userID] = true
	return true, nil
}

func (store *memoryStore) Unlike(_ context.Context, commentID, userID int64) error {
	delete(store.likes[commentID], userID)
	return nil
}

func commenter() *sec.Principal {
	return &sec.Principal{UserID: 1, Username: "alice", Role: sec.RoleUser}
}

func TestCreate_RequiresExactlyOneTarget(t *testing.T) {
	service := NewService(newMemoryStore())

	cases := []struct {
		name   string
		target Target
		wantOK bool
	}{
		{"question only", Target{QuestionID: 10}, true},
		{"answer only", Target{AnswerID: 5}, true},
		{"both targets", Target{QuestionID: 10, AnswerID: 5}, false},
		{"no target", Target{}, false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), commenter(), CreateInput{
				Target: testCase.target,
				Body:   "Interesting point.",
			})
			if testCase.wantOK {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			}
		})
	}
}

func TestCreate_ReplyMustStayOnThread(t *testing.T) {
	service := NewService(newMemoryStore())

	parent, err := service.Create(context.Background(), commenter(), CreateInput{
		Target: Target{QuestionID: 10},
		Body:   "Top-level remark.",
	})
	require.NoError(t, err)

	// A reply on a different target is rejected.
	_, err = service.Create(context.Background(), commenter(), CreateInput{
		Target:   Target{AnswerID: 5},
		ParentID: parent.ID,
		Body:     "Escaping the thread.",
	})
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)

	reply, err := service.Create(context.Background(), commenter(), CreateInput{
		Target:   Target{QuestionID: 10},
		ParentID: parent.ID,
		Body:     "Staying on thread.",
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	replies, err := service.Replies(context.Background(), parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)
}

func TestDelete_AuthorOrModerator(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	comment, err := service.Create(context.Background(), commenter(), CreateInput{
		Target: Target{QuestionID: 10},
		Body:   "Soon gone.",
	})
	require.NoError(t, err)

	stranger := &sec.Principal{UserID: 2, Username: "bob", Role: sec.RoleUser}
	err = service.Delete(context.Background(), stranger, comment.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	require.NoError(t, service.Delete(context.Background(), commenter(), comment.ID))

	_, err = store.FindByID(context.Background(), comment.ID)
	require.Error(t, err)
}

func TestListByTarget_RejectsAmbiguousQuery(t *testing.T) {
	service := NewService(newMemoryStore())

	_, _, err := service.ListByTarget(context.Background(), Target{}, pagination.Params{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
