package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/handlers"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/metrics"
	mwauth "github.com/airuleguy/pana-inscriptions-sub002/internal/middleware/auth"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

type Deps struct {
	Token               *token.Service
	AuthHandler         *handlers.AuthHandler
	TournamentHandler   *handlers.TournamentHandler
	ChoreographyHandler *handlers.ChoreographyHandler
	CoachHandler        *handlers.CoachHandler
	JudgeHandler        *handlers.JudgeHandler
	SupportStaffHandler *handlers.SupportStaffHandler
	FigHandler          *handlers.FigHandler
	SearchHandler       *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(metrics.Middleware)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/metrics", metrics.Handler())

	v1 := e.Group("/api/v1")

	v1.POST("/auth/login", d.AuthHandler.Login)

	authed := v1.Group("", mwauth.RequireLogin(d.Token))
	authed.POST("/auth/logout", d.AuthHandler.Logout)
	authed.GET("/auth/me", d.AuthHandler.Me)

	authed.GET("/tournaments", d.TournamentHandler.List)
	authed.GET("/tournaments/:tournamentID", d.TournamentHandler.Get)

	authed.GET("/fig/athletes", d.FigHandler.Athletes)
	authed.GET("/fig/images/:figID", d.FigHandler.Image)

	t := authed.Group("/tournaments/:tournamentID")

	t.GET("/choreographies", d.ChoreographyHandler.List)
	t.POST("/choreographies", d.ChoreographyHandler.Create)
	t.GET("/choreographies/:id", d.ChoreographyHandler.Get)
	t.PATCH("/choreographies/:id", d.ChoreographyHandler.Patch)
	t.DELETE("/choreographies/:id", d.ChoreographyHandler.Delete)

	t.GET("/coaches", d.CoachHandler.List)
	t.POST("/coaches", d.CoachHandler.Create)
	t.GET("/coaches/:id", d.CoachHandler.Get)
	t.PATCH("/coaches/:id", d.CoachHandler.Patch)
	t.DELETE("/coaches/:id", d.CoachHandler.Delete)

	t.GET("/judges", d.JudgeHandler.List)
	t.POST("/judges", d.JudgeHandler.Create)
	t.GET("/judges/:id", d.JudgeHandler.Get)
	t.PATCH("/judges/:id", d.JudgeHandler.Patch)
	t.DELETE("/judges/:id", d.JudgeHandler.Delete)

	t.GET("/support-staff", d.SupportStaffHandler.List)
	t.POST("/support-staff", d.SupportStaffHandler.Create)
	t.GET("/support-staff/:id", d.SupportStaffHandler.Get)
	t.PATCH("/support-staff/:id", d.SupportStaffHandler.Patch)
	t.DELETE("/support-staff/:id", d.SupportStaffHandler.Delete)

	admin := v1.Group("/admin", mwauth.RequireLogin(d.Token), mwauth.AdminOnly)

	admin.POST("/tournaments", d.TournamentHandler.Create)
	admin.PATCH("/tournaments/:tournamentID", d.TournamentHandler.Patch)
	admin.DELETE("/tournaments/:tournamentID", d.TournamentHandler.Delete)

	at := admin.Group("/tournaments/:tournamentID")
	at.POST("/choreographies/import", d.ChoreographyHandler.Import)
	at.POST("/coaches/import", d.CoachHandler.Import)
	at.POST("/judges/import", d.JudgeHandler.Import)
	at.POST("/support-staff/import", d.SupportStaffHandler.Import)

	admin.GET("/registrations/search", d.SearchHandler.Search)
	admin.POST("/fig/images/preload", d.FigHandler.Preload)
}
