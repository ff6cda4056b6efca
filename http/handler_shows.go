package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kauatwn/TicketFlow/command"
)

type postShowRequest struct {
	Title             string        `json:"title"`
	Date              time.Time     `json:"date"`
	MaxTicketsPerUser int           `json:"max_tickets_per_user"`
	Seats             []seatRequest `json:"seats"`
}

type seatRequest struct {
	Sector string          `json:"sector"`
	Row    string          `json:"row"`
	Number string          `json:"number"`
	Price  decimal.Decimal `json:"price"`
}

type postShowResponse struct {
	ShowID string `json:"show_id"`
}

func (s Server) PostShows(c echo.Context) error {
	var request postShowRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	showID, err := s.commands.PublishShow(c.Request().Context(), command.PublishShow{
		Title:             request.Title,
		Date:              request.Date,
		MaxTicketsPerUser: request.MaxTicketsPerUser,
		Seats: lo.Map(request.Seats, func(seat seatRequest, _ int) command.PublishShowSeat {
			return command.PublishShowSeat{
				Sector: seat.Sector,
				Row:    seat.Row,
				Number: seat.Number,
				Price:  seat.Price,
			}
		}),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, postShowResponse{ShowID: showID})
}

func (s Server) GetShow(c echo.Context) error {
	details, err := s.queries.ShowDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, details)
}

func (s Server) GetShowTickets(c echo.Context) error {
	tickets, err := s.queries.AvailableTickets(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tickets)
}

func (s Server) PostCancelShow(c echo.Context) error {
	err := s.commands.CancelShow(c.Request().Context(), command.CancelShow{ShowID: c.Param("id")})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s Server) PostFinishShow(c echo.Context) error {
	err := s.commands.FinishShow(c.Request().Context(), command.FinishShow{ShowID: c.Param("id")})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
