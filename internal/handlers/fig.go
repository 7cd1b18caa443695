package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/authz"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/cache"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/fig"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/logging"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/metrics"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
)

type FigHandler struct {
	DB     *gorm.DB
	Client *fig.Client
	Cache  cache.Cache
	TTL    time.Duration
}

// Athletes returns the FIG license list for the caller's country,
// upserting rows into the local gymnasts table on the way through.
// Only admins may ask for a different country.
func (h *FigHandler) Athletes(c echo.Context) error {
	cl := claims(c)
	country := authz.OwnCountry(cl)
	if want := c.QueryParam("country"); want != "" {
		if !authz.CanAccess(cl, want, "") {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		country = want
	}

	cacheKey := "fig:athletes:" + country
	if data, ok, err := h.Cache.Get(c.Request().Context(), cacheKey); err == nil && ok {
		return c.JSONBlob(http.StatusOK, data)
	}

	athletes, err := h.Client.Athletes(c.Request().Context(), country)
	if err != nil {
		return upstreamError(err)
	}

	gymnasts := make([]models.Gymnast, 0, len(athletes))
	now := time.Now()
	for _, a := range athletes {
		g := models.Gymnast{
			FigID:     a.FigID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Gender:    a.Gender,
			Country:   a.Country,
		}
		if birth, err := time.Parse("2006-01-02", a.Birth); err == nil {
			g.DateOfBirth = birth
			g.Category = fig.CategoryFor(birth, now)
		}
		if validTo, err := time.Parse("2006-01-02", a.ValidTo); err == nil {
			g.LicenseEnd = validTo
		}
		gymnasts = append(gymnasts, g)
	}
	if len(gymnasts) > 0 {
		err := h.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fig_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "gender", "country", "date_of_birth", "category", "license_end", "updated_at"}),
		}).Create(&gymnasts).Error
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, "internal error")
		}
	}

	if data, err := json.Marshal(gymnasts); err == nil {
		if err := h.Cache.Set(c.Request().Context(), cacheKey, data, h.TTL); err != nil {
			c.Logger().Errorf("cache set error: %v", err)
		}
	}
	return c.JSON(http.StatusOK, gymnasts)
}

// Image proxies an athlete photo, serving repeats from the TTL cache
// so the FIG API sees at most one fetch per id per window.
func (h *FigHandler) Image(c echo.Context) error {
	figID := c.Param("figID")
	if figID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing figID")
	}

	cacheKey := "fig:image:" + figID
	if data, ok, err := h.Cache.Get(c.Request().Context(), cacheKey); err == nil && ok {
		metrics.ImageCacheHits.Inc()
		return c.Blob(http.StatusOK, http.DetectContentType(data), data)
	}
	metrics.ImageCacheMisses.Inc()

	data, contentType, err := h.Client.Image(c.Request().Context(), figID)
	if err != nil {
		return upstreamError(err)
	}

	if err := h.Cache.Set(c.Request().Context(), cacheKey, data, h.TTL); err != nil {
		c.Logger().Errorf("cache set error: %v", err)
	}
	return c.Blob(http.StatusOK, contentType, data)
}

// Preload warms the image cache for a batch of ids. Best-effort: each
// failure is logged and counted, the request itself always succeeds.
func (h *FigHandler) Preload(c echo.Context) error {
	var req struct {
		FigIDs []string `json:"figIds"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.FigIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "figIds is empty")
	}

	l := logging.FromContext(c.Request().Context()).With("handler", "fig_preload")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(len(req.FigIDs))*h.Client.HTTP.Timeout)
	defer cancel()

	ok, failed := 0, 0
	for _, id := range req.FigIDs {
		cacheKey := "fig:image:" + id
		if _, hit, err := h.Cache.Get(ctx, cacheKey); err == nil && hit {
			ok++
			continue
		}
		data, _, err := h.Client.Image(ctx, id)
		if err != nil {
			failed++
			l.Warn("preload_failed", "figID", id, "error", err)
			continue
		}
		if err := h.Cache.Set(ctx, cacheKey, data, h.TTL); err != nil {
			l.Warn("preload_cache_set_failed", "figID", id, "error", err)
		}
		ok++
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": ok, "failed": failed})
}

func upstreamError(err error) error {
	switch {
	case errors.Is(err, fig.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, fig.ErrTimeout):
		return echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, fig.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, fig.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
