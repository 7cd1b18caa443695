package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/es"
	mwauth "github.com/airuleguy/pana-inscriptions-sub002/internal/middleware/auth"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/mykafka"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/service/search"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Status: "error", Message: msg})
}

// validationResponse carries field-level detail, everything else about
// the request is rejected before business logic runs.
func validationResponse(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"status": "error",
		"fields": fields,
	})
}

func claims(c echo.Context) *token.Claims {
	return mwauth.ClaimsFrom(c)
}

func uintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}

func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func indexRegistration(c echo.Context, client *elasticsearch.Client, doc search.RegistrationDoc) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Index(ctx, client, es.RegistrationIndex, doc); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

// applyTransition validates a requested status change against the
// workflow. An empty request keeps the current status. The bool
// reports whether the status actually moved.
func applyTransition(current models.Status, requested string) (models.Status, bool, error) {
	if requested == "" {
		return current, false, nil
	}
	next := models.Status(requested)
	if !next.Valid() {
		return current, false, echo.NewHTTPError(http.StatusBadRequest, "unknown status "+requested)
	}
	if !current.CanTransitionTo(next) {
		return current, false, echo.NewHTTPError(http.StatusConflict,
			"cannot move registration from "+string(current)+" to "+string(next))
	}
	return next, next != current, nil
}
