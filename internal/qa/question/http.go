// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package question

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

// Handler implements the question HTTP endpoints.
type Handler struct {
	questionService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{questionService: service}
}

// Routes returns a [chi.Router] configured with question-specific routes.
//
// # Endpoints
//   - GET    /            : Paginated feed, newest first (?tag_id= filter).
//   - GET    /{id}        : Single question, counts the view.
//   - POST   /            : Post a question.
//   - PUT    /{id}        : Replace content (author only).
//   - DELETE /{id}        : Remove (author or moderator).
//   - POST   /{id}/like   : Like.
//   - DELETE /{id}/like   : Unlike.
//   - GET    /{id}/answers: Answers on the question (handler injected).
//
// The answers listing belongs to the answer domain; its handler is passed in
// so this router owns the URL without owning the logic.
func (handler *Handler) Routes(answersByQuestion http.HandlerFunc) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/answers", answersByQuestion)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/like", handler.like)
		r.Delete("/{id}/like", handler.unlike)
	})

	return router
}

type questionRequest struct {
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	TagIDs []int64 `json:"tag_ids"`
}

/*
list returns a page of questions.

GET /api/v1/questions?page=&limit=&tag_id=
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	// tag_id=0 (or absent/garbage) means "no filter".
	tagID, _ := strconv.ParseInt(request.URL.Query().Get("tag_id"), 10, 64)

	questions, total, err := handler.questionService.List(request.Context(), params, tagID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, questions, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
get returns a single question and counts the view.

GET /api/v1/questions/{id}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	questionID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	question, err := handler.questionService.Get(request.Context(), questionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, question)
}

/*
create posts a new question.

POST /api/v1/questions
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input questionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	question, err := handler.questionService.Create(request.Context(), actor, CreateInput{
		Title:  input.Title,
		Body:   input.Body,
		TagIDs: input.TagIDs,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, question)
}

/*
update replaces a question's content. Author only.

PUT /api/v1/questions/{id}
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	questionID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input questionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	question, err := handler.questionService.Update(request.Context(), actor, questionID, UpdateInput{
		Title:  input.Title,
		Body:   input.Body,
		TagIDs: input.TagIDs,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, question)
}

/*
delete removes a question. Author or moderator.

DELETE /api/v1/questions/{id}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	questionID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.questionService.Delete(request.Context(), actor, questionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
like records a like on a question.

POST /api/v1/questions/{id}/like
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	questionID, actor, err := handler.likeParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.questionService.Like(request.Context(), actor, questionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
unlike removes a like from a question.

DELETE /api/v1/questions/{id}/like
*/
func (handler *Handler) unlike(writer http.ResponseWriter, request *http.Request) {
	questionID, actor, err := handler.likeParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.questionService.Unlike(request.Context(), actor, questionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) likeParams(request *http.Request) (int64, *sec.Principal, error) {
	questionID, err := requestutil.ID(request, "id")
	if err != nil {
		return 0, nil, err
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		return 0, nil, err
	}

	return questionID, actor, nil
}
