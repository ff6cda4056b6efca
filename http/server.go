package http

import (
	"context"
	"errors"
	"net/http"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/kauatwn/TicketFlow/command"
	"github.com/kauatwn/TicketFlow/entity"
)

type CommandHandler interface {
	PublishShow(ctx context.Context, cmd command.PublishShow) (string, error)
	CancelShow(ctx context.Context, cmd command.CancelShow) error
	FinishShow(ctx context.Context, cmd command.FinishShow) error
	ReserveTicket(ctx context.Context, cmd command.ReserveTicket) error
	ConfirmPurchase(ctx context.Context, cmd command.ConfirmPurchase) error
}

type QueryHandler interface {
	ShowDetails(ctx context.Context, showID string) (entity.ShowDetails, error)
	AvailableTickets(ctx context.Context, showID string) ([]entity.AvailableTicket, error)
}

type Server struct {
	addr     string
	e        *echo.Echo
	commands CommandHandler
	queries  QueryHandler
}

func NewServer(
	addr string,
	serviceName string,
	commands CommandHandler,
	queries QueryHandler,
) *Server {
	if commands == nil {
		panic("missing commands")
	}
	if queries == nil {
		panic("missing queries")
	}

	e := echoHTTP.NewEcho()
	e.HTTPErrorHandler = handleError

	e.Use(otelecho.Middleware(serviceName))
	e.Use(correlationIDMiddleware)

	server := &Server{
		addr:     addr,
		e:        e,
		commands: commands,
		queries:  queries,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.POST("/shows", server.PostShows)
	api.GET("/shows/:id", server.GetShow)
	api.GET("/shows/:id/tickets", server.GetShowTickets)
	api.POST("/shows/:id/cancel", server.PostCancelShow)
	api.POST("/shows/:id/finish", server.PostFinishShow)

	api.POST("/tickets/:id/reserve", server.PostReserveTicket)
	api.POST("/tickets/:id/confirm", server.PostConfirmPurchase)

	return server
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(context.Background())
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
