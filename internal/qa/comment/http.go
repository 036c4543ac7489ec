// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package comment

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/askora/askora/internal/platform/middleware"
	requestutil "github.com/askora/askora/internal/platform/request"
	"github.com/askora/askora/internal/platform/respond"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/pkg/pagination"
)

// Handler implements the comment HTTP endpoints.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] configured with comment-specific routes.
//
// # Endpoints
//   - GET    /              : Comments on a target (?question_id= or ?answer_id=).
//   - GET    /{id}          : Single comment.
//   - GET    /{id}/replies  : Direct replies, oldest first.
//   - POST   /              : Post a comment or reply.
//   - DELETE /{id}          : Remove (author or moderator).
//   - POST   /{id}/like     : Like.
//   - DELETE /{id}/like     : Unlike.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listByTarget)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/replies", handler.replies)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/like", handler.like)
		r.Delete("/{id}/like", handler.unlike)
	})

	return router
}

type createCommentRequest struct {
	QuestionID int64  `json:"question_id"`
	AnswerID   int64  `json:"answer_id"`
	ParentID   int64  `json:"parent_id"`
	Body       string `json:"body"`
}

/*
listByTarget returns a page of top-level comments on a question or answer.

GET /api/v1/comments?question_id=|answer_id=&page=&limit=
*/
func (handler *Handler) listByTarget(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	questionID, _ := strconv.ParseInt(query.Get("question_id"), 10, 64)
	answerID, _ := strconv.ParseInt(query.Get("answer_id"), 10, 64)

	params := pagination.FromRequest(request)
	comments, total, err := handler.commentService.ListByTarget(request.Context(), Target{
		QuestionID: questionID,
		AnswerID:   answerID,
	}, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
get returns a single comment.

GET /api/v1/comments/{id}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	commentID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Get(request.Context(), commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
replies returns the direct replies to a comment.

GET /api/v1/comments/{id}/replies
*/
func (handler *Handler) replies(writer http.ResponseWriter, request *http.Request) {
	commentID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	replies, err := handler.commentService.Replies(request.Context(), commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, replies)
}

/*
create posts a comment or reply.

POST /api/v1/comments
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Create(request.Context(), actor, CreateInput{
		Target:   Target{QuestionID: input.QuestionID, AnswerID: input.AnswerID},
		ParentID: input.ParentID,
		Body:     input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
delete removes a comment. Author or moderator.

DELETE /api/v1/comments/{id}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	commentID, actor, err := handler.actorParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Delete(request.Context(), actor, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
like records a like on a comment.

POST /api/v1/comments/{id}/like
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	commentID, actor, err := handler.actorParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Like(request.Context(), actor, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
unlike removes a like from a comment.

DELETE /api/v1/comments/{id}/like
*/
func (handler *Handler) unlike(writer http.ResponseWriter, request *http.Request) {
	commentID, actor, err := handler.actorParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Unlike(request.Context(), actor, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) actorParams(request *http.Request) (int64, *sec.Principal, error) {
	commentID, err := requestutil.ID(request, "id")
	if err != nil {
		return 0, nil, err
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		return 0, nil, err
	}

	return commentID, actor, nil
}
