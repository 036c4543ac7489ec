// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package comment

import (
	"context"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/pkg/pagination"
)

// Service implements comment use cases.
type Service struct {
	store Store
}

// NewService constructs a new comment [Service].
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns a single comment by ID.
func (service *Service) Get(context context.Context, commentID int64) (*Comment, error) {
	return service.store.FindByID(context, commentID)
}

// ListByTarget returns a page of top-level comments on a question or answer.
func (service *Service) ListByTarget(context context.Context, target Target, params pagination.Params) ([]*Comment, int, error) {
	if !target.Valid() {
		return nil, 0, apperr.ValidationError("Exactly one of question_id and answer_id is required")
	}
	return service.store.ListByTarget(context, target, params)
}

// Replies returns the direct replies to a comment.
func (service *Service) Replies(context context.Context, commentID int64) ([]*Comment, error) {
	if _, err := service.store.FindByID(context, commentID); err != nil {
		return nil, err
	}
	return service.store.Replies(context, commentID)
}

// CreateInput carries a validated comment creation request.
type CreateInput struct {
	Target   Target
	ParentID int64
	Body     string
}

/*
Create posts a comment on a question or answer.

Description: Exactly one target must be set. A reply inherits nothing from
its parent except the thread position; it must still name the same target,
which is checked so replies can't jump threads.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - input: CreateInput

Returns:
  - *Comment: Created entity
  - error: Validation, Unprocessable (cross-thread reply), NotFound, or storage errors
*/
func (service *Service) Create(context context.Context, actor *sec.Principal, input CreateInput) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxBodyLen).
		Custom(FieldTarget, !input.Target.Valid(), "Exactly one of question_id and answer_id is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Body:           input.Body,
	}

	if input.Target.QuestionID > 0 {
		comment.QuestionID = &input.Target.QuestionID
	} else {
		comment.AnswerID = &input.Target.AnswerID
	}

	if input.ParentID > 0 {
		parent, err := service.store.FindByID(context, input.ParentID)
		if err != nil {
			return nil, err
		}

		if !sameTarget(parent, input.Target) {
			return nil, apperr.Unprocessable("Reply must target the same question or answer as its parent")
		}

		comment.ParentID = &input.ParentID
	}

	if err := service.store.Create(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

/*
Delete removes a comment. Author or moderator.

Returns:
  - error: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(context context.Context, actor *sec.Principal, commentID int64) error {
	comment, err := service.store.FindByID(context, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actor.UserID && !actor.Role.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("You can only delete your own comments")
	}

	return service.store.Delete(context, commentID)
}

// Like records a like on a comment. Idempotent; repeats are absorbed.
func (service *Service) Like(context context.Context, actor *sec.Principal, commentID int64) error {
	if _, err := service.store.FindByID(context, commentID); err != nil {
		return err
	}

	_, err := service.store.Like(context, commentID, actor.UserID)
	return err
}

// Unlike removes a like from a comment.
func (service *Service) Unlike(context context.Context, actor *sec.Principal, commentID int64) error {
	return service.store.Unlike(context, commentID, actor.UserID)
}

// sameTarget reports whether a parent comment sits on the given target.
func sameTarget(parent *Comment, target Target) bool {
	if target.QuestionID > 0 {
		return parent.QuestionID != nil && *parent.QuestionID == target.QuestionID
	}
	return parent.AnswerID != nil && *parent.AnswerID == target.AnswerID
}
