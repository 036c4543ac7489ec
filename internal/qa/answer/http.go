// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package answer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askora/askora/internal/platform/middleware"
	requestutil "github.com/askora/askora/internal/platform/request"
	"github.com/askora/askora/internal/platform/respond"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/pkg/pagination"
)

// Handler implements the answer HTTP endpoints.
type Handler struct {
	answerService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{answerService: service}
}

// Routes returns a [chi.Router] configured with answer-specific routes.
//
// # Endpoints
//   - GET    /{id}        : Single answer.
//   - POST   /            : Post an answer.
//   - DELETE /{id}        : Remove (author or moderator).
//   - POST   /{id}/accept : Accept (question author only).
//   - POST   /{id}/like   : Like.
//   - DELETE /{id}/like   : Unlike.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/accept", handler.accept)
		r.Post("/{id}/like", handler.like)
		r.Delete("/{id}/like", handler.unlike)
	})

	return router
}

type createAnswerRequest struct {
	QuestionID int64  `json:"question_id"`
	Body       string `json:"body"`
}

/*
get returns a single answer.

GET /api/v1/answers/{id}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	answerID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	answer, err := handler.answerService.Get(request.Context(), answerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, answer)
}

/*
ByQuestion lists a question's answers, accepted first.

GET /api/v1/questions/{id}/answers

Exported so the question router can own the URL.
*/
func (handler *Handler) ByQuestion(writer http.ResponseWriter, request *http.Request) {
	questionID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	answers, total, err := handler.answerService.ListByQuestion(request.Context(), questionID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, answers, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
create posts an answer on a question.

POST /api/v1/answers
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createAnswerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	answer, err := handler.answerService.Create(request.Context(), actor, input.QuestionID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, answer)
}

/*
delete removes an answer. Author or moderator.

DELETE /api/v1/answers/{id}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	answerID, actor, err := handler.actorParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.answerService.Delete(request.Context(), actor, answerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
accept marks an answer as the solution. Question author only.

POST /api/v1/answers/{id}/accept
*/
func (handler *Handler) accept(writer http.ResponseWriter, request *http.Request) {
	answerID, actor, err := handler.actorParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	answer, err := handler.answerService.Accept(request.Context(), actor, answerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, answer)
}

/*
like records a like on an answer.

POST /api/v1/answers/{id}/like
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	answerID, actor, err := handler.actorParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.answerService.Like(request.Context(), actor, answerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
unlike removes a like from an answer.

DELETE /api/v1/answers/{id}/like
*/
func (handler *Handler) unlike(writer http.ResponseWriter, request *http.Request) {
	answerID, actor, err := handler.actorParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.answerService.Unlike(request.Context(), actor, answerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) actorParams(request *http.Request) (int64, *sec.Principal, error) {
	answerID, err := requestutil.ID(request, "id")
	if err != nil {
		return 0, nil, err
	}

	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		return 0, nil, err
	}

	return answerID, actor, nil
}
