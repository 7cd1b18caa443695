package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/handlers"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/hash"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Tournament{}, &models.Gymnast{},
		&models.Choreography{}, &models.Coach{}, &models.Judge{},
		&models.SupportStaff{},
	))

	svc := token.NewService([]byte("test_secret"), time.Hour)
	e := echo.New()
	Register(e, &Deps{
		Token:               svc,
		AuthHandler:         &handlers.AuthHandler{DB: db, Token: svc},
		TournamentHandler:   &handlers.TournamentHandler{DB: db},
		ChoreographyHandler: &handlers.ChoreographyHandler{DB: db},
		CoachHandler:        &handlers.CoachHandler{DB: db},
		JudgeHandler:        &handlers.JudgeHandler{DB: db},
		SupportStaffHandler: &handlers.SupportStaffHandler{DB: db},
		FigHandler:          &handlers.FigHandler{DB: db},
		SearchHandler:       &handlers.SearchHandler{},
	})
	return e, db
}

func seedServerUser(t *testing.T, db *gorm.DB, username, country, role string) {
	t.Helper()
	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username: username, PasswordHash: pwHash,
		Country: country, Role: role, Active: true,
	}).Error)
}

func do(e *echo.Echo, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRequireBearerToken(t *testing.T) {
	e, _ := newServer(t)

	for _, path := range []string{
		"/api/v1/tournaments",
		"/api/v1/tournaments/1/coaches",
		"/api/v1/fig/athletes",
	} {
		rec := do(e, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := do(e, http.MethodGet, "/api/v1/tournaments", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectDelegates(t *testing.T) {
	e, db := newServer(t)
	seedServerUser(t, db, "delegate", "USA", models.RoleDelegate)

	login := do(e, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "delegate", "password": "password",
	})
	require.Equal(t, http.StatusOK, login.Code)
	var session struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &session))

	rec := do(e, http.MethodPost, "/api/v1/admin/tournaments", session.AccessToken, map[string]any{
		"name": "Copa", "type": "COPA_PANAMERICANA",
		"start_date": "2027-05-10", "end_date": "2027-05-14",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

// End to end: login, register a coach, walk it through the workflow.
func TestDelegateRegistrationFlow(t *testing.T) {
	e, db := newServer(t)
	seedServerUser(t, db, "delegate", "USA", models.RoleDelegate)
	require.NoError(t, db.Create(&models.Tournament{
		Name: "Campeonato", Type: models.TournamentCampeonato,
		StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 4),
		Active: true,
	}).Error)

	login := do(e, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "delegate", "password": "password",
	})
	require.Equal(t, http.StatusOK, login.Code)
	var session struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &session))

	created := do(e, http.MethodPost, "/api/v1/tournaments/1/coaches", session.AccessToken, map[string]any{
		"fig_id": "C1", "first_name": "Ana", "last_name": "Diaz",
		"country": "BRA", "level": "L1",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var coach models.Coach
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &coach))
	require.Equal(t, "USA", coach.Country)

	id := "/api/v1/tournaments/1/coaches/1"
	require.Equal(t, http.StatusOK, do(e, http.MethodPatch, id, session.AccessToken,
		map[string]string{"status": "SUBMITTED"}).Code)
	require.Equal(t, http.StatusOK, do(e, http.MethodPatch, id, session.AccessToken,
		map[string]string{"status": "REGISTERED"}).Code)
	require.Equal(t, http.StatusConflict, do(e, http.MethodPatch, id, session.AccessToken,
		map[string]string{"status": "PENDING"}).Code)
}
