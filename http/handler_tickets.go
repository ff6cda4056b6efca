package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kauatwn/TicketFlow/command"
)

type customerRequest struct {
	CustomerID string `json:"customer_id"`
}

func (s Server) PostReserveTicket(c echo.Context) error {
	var request customerRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	err := s.commands.ReserveTicket(c.Request().Context(), command.ReserveTicket{
		TicketID:   c.Param("id"),
		CustomerID: request.CustomerID,
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s Server) PostConfirmPurchase(c echo.Context) error {
	var request customerRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	err := s.commands.ConfirmPurchase(c.Request().Context(), command.ConfirmPurchase{
		TicketID:   c.Param("id"),
		CustomerID: request.CustomerID,
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
