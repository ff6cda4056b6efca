package http

import (
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"github.com/kauatwn/TicketFlow/entity"
)

type problemResponse struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

const internalErrorDetail = "An unexpected internal error occurred."

func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}

	problem := problemFromError(err)
	if problem.Status == http.StatusInternalServerError {
		log.FromContext(c.Request().Context()).WithError(err).Error("Request failed")
	}

	if writeErr := c.JSON(problem.Status, problem); writeErr != nil {
		log.FromContext(c.Request().Context()).WithError(writeErr).Error("Could not write error response")
	}
}

func problemFromError(err error) problemResponse {
	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		return problemResponse{
			Title:  "One or more validation errors occurred.",
			Status: http.StatusBadRequest,
			Errors: validationErr.Errors,
		}
	}

	var domainErr *entity.DomainError
	hasMessage := errors.As(err, &domainErr)
	detail := func() string {
		if hasMessage {
			return domainErr.Message
		}
		return err.Error()
	}

	switch {
	case errors.Is(err, entity.ErrNotFound):
		return problemResponse{Title: "Resource not found.", Status: http.StatusNotFound, Detail: detail()}
	case errors.Is(err, entity.ErrConcurrencyConflict):
		return problemResponse{Title: "Concurrency conflict.", Status: http.StatusConflict, Detail: detail()}
	case errors.Is(err, entity.ErrConflict):
		return problemResponse{Title: "Business rule violation.", Status: http.StatusConflict, Detail: detail()}
	}

	return problemResponse{
		Title:  "Internal server error.",
		Status: http.StatusInternalServerError,
		Detail: internalErrorDetail,
	}
}
