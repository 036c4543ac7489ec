// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/pkg/pagination"
)

// # Contracts & Types

// EventPublisher defines the outbound events the question domain emits.
type EventPublisher interface {
	PublishQuestionCreated(ctx context.Context, questionID, userID int64, title string)
	PublishQuestionEdited(ctx context.Context, questionID, userID int64, title string)
	PublishQuestionDeleted(ctx context.Context, questionID, userID int64, title string)
	PublishQuestionLiked(ctx context.Context, userID, questionID int64)
	PublishAuditLog(ctx context.Context, userID int64, action, resourceType string, resourceID int64, details string)
}

// ReadCache is the slice of [Cache] the service depends on.
type ReadCache interface {
	Get(ctx context.Context, questionID int64) *Question
	Set(ctx context.Context, question *Question)
	Invalidate(ctx context.Context, questionID int64)
	IncrementViews(ctx context.Context, questionID int64) int64
	DropViews(ctx context.Context, questionID int64)
}

// Service implements question use cases.
type Service struct {
	store     Store
	cache     ReadCache
	publisher EventPublisher
}

// NewService constructs a new question [Service] with necessary dependencies.
func NewService(store Store, cache ReadCache, publisher EventPublisher) *Service {
	return &Service{
		store:     store,
		cache:     cache,
		publisher: publisher,
	}
}

// # Reads

// List returns a page of questions, optionally filtered by tag.
func (service *Service) List(context context.Context, params pagination.Params, tagID int64) ([]*Question, int, error) {
	return service.store.List(context, params, tagID)
}

/*
Get returns a single question and counts the view.

Description: Every call bumps the Redis view counter. The entity itself is
served from the cache when hot; only a miss touches Postgres. The returned
view count is the persisted base plus the live Redis delta.

Parameters:
  - context: context.Context
  - questionID: int64

Returns:
  - *Question: Aggregate with live view count
  - error: NotFound or storage errors
*/
func (service *Service) Get(context context.Context, questionID int64) (*Question, error) {
	views := service.cache.IncrementViews(context, questionID)

	if cached := service.cache.Get(context, questionID); cached != nil {
		cached.ViewCount += views
		return cached, nil
	}

	question, err := service.store.FindByID(context, questionID)
	if err != nil {
		return nil, err
	}

	service.cache.Set(context, question)

	// The cache holds the persisted base count; the delta is applied per read.
	rendered := *question
	rendered.ViewCount += views
	return &rendered, nil
}

// # Writes

// CreateInput carries a validated question creation request.
type CreateInput struct {
	Title  string
	Body   string
	TagIDs []int64
}

/*
Create posts a new question.

Description: Tag IDs must reference existing tags. A successful creation
emits QUESTION_CREATED and an AUDIT_LOG entry.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - input: CreateInput

Returns:
  - *Question: Created aggregate
  - error: Validation, Unprocessable (unknown tag), or storage errors
*/
func (service *Service) Create(context context.Context, actor *sec.Principal, input CreateInput) (*Question, error) {
	input.Title = strings.TrimSpace(input.Title)

	if err := validateContent(input.Title, input.Body, input.TagIDs); err != nil {
		return nil, err
	}

	question := &Question{
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Title:          input.Title,
		Body:           input.Body,
	}

	if err := service.store.Create(context, question, input.TagIDs); err != nil {
		return nil, err
	}

	service.publisher.PublishQuestionCreated(context, question.ID, actor.UserID, question.Title)
	service.publisher.PublishAuditLog(context, actor.UserID, "CREATE", "QUESTION", question.ID,
		fmt.Sprintf("Question '%s' created", question.Title))

	return service.store.FindByID(context, question.ID)
}

// UpdateInput carries the replacement content of a question edit.
type UpdateInput struct {
	Title  string
	Body   string
	TagIDs []int64
}

/*
Update replaces a question's content. Author only.

Returns:
  - *Question: Updated aggregate
  - error: Forbidden, NotFound, validation, or storage errors
*/
func (service *Service) Update(context context.Context, actor *sec.Principal, questionID int64, input UpdateInput) (*Question, error) {
	question, err := service.store.FindByID(context, questionID)
	if err != nil {
		return nil, err
	}

	if question.AuthorID != actor.UserID {
		return nil, apperr.Forbidden("You can only edit your own questions")
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := validateContent(input.Title, input.Body, input.TagIDs); err != nil {
		return nil, err
	}

	question.Title = input.Title
	question.Body = input.Body

	if err := service.store.Update(context, question, input.TagIDs); err != nil {
		return nil, err
	}

	service.cache.Invalidate(context, questionID)
	service.publisher.PublishQuestionEdited(context, questionID, actor.UserID, question.Title)

	return service.store.FindByID(context, questionID)
}

/*
Delete removes a question. Author or moderator.

Returns:
  - error: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(context context.Context, actor *sec.Principal, questionID int64) error {
	question, err := service.store.FindByID(context, questionID)
	if err != nil {
		return err
	}

	if question.AuthorID != actor.UserID && !actor.Role.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("You can only delete your own questions")
	}

	if err := service.store.Delete(context, questionID); err != nil {
		return err
	}

	service.cache.Invalidate(context, questionID)
	service.cache.DropViews(context, questionID)

	service.publisher.PublishQuestionDeleted(context, questionID, actor.UserID, question.Title)
	service.publisher.PublishAuditLog(context, actor.UserID, "DELETE", "QUESTION", questionID,
		fmt.Sprintf("Question '%s' deleted", question.Title))

	return nil
}

// # Likes

/*
Like records a like on a question.

Description: Idempotent. Only a fresh like emits QUESTION_LIKED; repeats are
absorbed silently so retried requests can't flood the engagement stream.
*/
func (service *Service) Like(context context.Context, actor *sec.Principal, questionID int64) error {
	if _, err := service.store.FindByID(context, questionID); err != nil {
		return err
	}

	fresh, err := service.store.Like(context, questionID, actor.UserID)
	if err != nil {
		return err
	}

	if !fresh {
		return nil
	}

	service.cache.Invalidate(context, questionID)
	service.publisher.PublishQuestionLiked(context, actor.UserID, questionID)

	return nil
}

// Unlike removes a like. No event is emitted for unlikes.
func (service *Service) Unlike(context context.Context, actor *sec.Principal, questionID int64) error {
	if err := service.store.Unlike(context, questionID, actor.UserID); err != nil {
		return err
	}

	service.cache.Invalidate(context, questionID)
	return nil
}

// validateContent applies the shared content rules of create and update.
func validateContent(title, body string, tagIDs []int64) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLen).
		Required(FieldBody, body).
		MaxLen(FieldBody, body, MaxBodyLen).
		Custom(FieldTagIDs, len(tagIDs) == 0, "At least one tag is required").
		Custom(FieldTagIDs, len(tagIDs) > MaxTagsPerQuestion,
			fmt.Sprintf("Maximum %d tags per question", MaxTagsPerQuestion))

	for _, tagID := range tagIDs {
		validator.PositiveID(FieldTagIDs, tagID)
	}

	return validator.Err()
}
