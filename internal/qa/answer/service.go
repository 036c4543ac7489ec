// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package answer

import (
	"context"

	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/pkg/pagination"
)

// EventPublisher defines the outbound events the answer domain emits.
type EventPublisher interface {
	PublishAnswerCreated(ctx context.Context, answerID, questionID, userID int64)
	PublishAnswerMarkedAccepted(ctx context.Context, answerID, questionID, userID int64)
	PublishAuditLog(ctx context.Context, userID int64, action, resourceType string, resourceID int64, details string)
}

// Service implements answer use cases.
type Service struct {
	store     Store
	questions QuestionDirectory
	publisher EventPublisher
}

// NewService constructs a new answer [Service] with necessary dependencies.
func NewService(store Store, questions QuestionDirectory, publisher EventPublisher) *Service {
	return &Service{
		store:     store,
		questions: questions,
		publisher: publisher,
	}
}

// Get returns a single answer by ID.
func (service *Service) Get(context context.Context, answerID int64) (*Answer, error) {
	return service.store.FindByID(context, answerID)
}

// ListByQuestion returns a page of answers on a question, accepted first.
func (service *Service) ListByQuestion(context context.Context, questionID int64, params pagination.Params) ([]*Answer, int, error) {
	return service.store.ListByQuestion(context, questionID, params)
}

/*
Create posts an answer on a question.

Description: The question must exist. A successful creation emits
ANSWER_CREATED, which the consumer turns into a NEW_ANSWER notification for
the question's author.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - questionID: int64
  - body: string

Returns:
  - *Answer: Created entity
  - error: NotFound (unknown question), validation, or storage errors
*/
func (service *Service) Create(context context.Context, actor *sec.Principal, questionID int64, body string) (*Answer, error) {
	validator := &validate.Validator{}
	validator.PositiveID(FieldQuestionID, questionID).
		Required(FieldBody, body).
		MaxLen(FieldBody, body, MaxBodyLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.questions.QuestionAuthor(context, questionID); err != nil {
		return nil, err
	}

	answer := &Answer{
		QuestionID:     questionID,
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Body:           body,
	}

	if err := service.store.Create(context, answer); err != nil {
		return nil, err
	}

	service.publisher.PublishAnswerCreated(context, answer.ID, questionID, actor.UserID)

	return answer, nil
}

/*
Delete removes an answer. Author or moderator.

Returns:
  - error: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(context context.Context, actor *sec.Principal, answerID int64) error {
	answer, err := service.store.FindByID(context, answerID)
	if err != nil {
		return err
	}

	if answer.AuthorID != actor.UserID && !actor.Role.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("You can only delete your own answers")
	}

	if err := service.store.Delete(context, answerID); err != nil {
		return err
	}

	service.publisher.PublishAuditLog(context, actor.UserID, "DELETE", "ANSWER", answerID, "Answer deleted")

	return nil
}

/*
Accept marks an answer as the question's solution.

Description: Only the question's author may accept, and accepting a new
answer un-accepts any previous one. A successful acceptance emits
ANSWER_MARKED_ACCEPTED, which the consumer turns into an ANSWER_ACCEPTED
notification for the answer's author.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - answerID: int64

Returns:
  - *Answer: The accepted answer
  - error: Forbidden (not the question author), NotFound, or storage errors
*/
func (service *Service) Accept(context context.Context, actor *sec.Principal, answerID int64) (*Answer, error) {
	answer, err := service.store.FindByID(context, answerID)
	if err != nil {
		return nil, err
	}

	questionAuthorID, err := service.questions.QuestionAuthor(context, answer.QuestionID)
	if err != nil {
		return nil, err
	}

	if questionAuthorID != actor.UserID {
		return nil, apperr.Forbidden("Only the question author can accept an answer")
	}

	if err := service.store.MarkAccepted(context, answerID, answer.QuestionID); err != nil {
		return nil, err
	}

	answer.IsAccepted = true
	service.publisher.PublishAnswerMarkedAccepted(context, answerID, answer.QuestionID, actor.UserID)

	return answer, nil
}

// Like records a like on an answer. Idempotent; repeats are absorbed.
func (service *Service) Like(context context.Context, actor *sec.Principal, answerID int64) error {
	if _, err := service.store.FindByID(context, answerID); err != nil {
		return err
	}

	_, err := service.store.Like(context, answerID, actor.UserID)
	return err
}

// Unlike removes a like from an answer.
func (service *Service) Unlike(context context.Context, actor *sec.Principal, answerID int64) error {
	return service.store.Unlike(context, answerID, actor.UserID)
}
