package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/hash"
	mwauth "github.com/airuleguy/pana-inscriptions-sub002/internal/middleware/auth"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Token *token.Service

	Auth   *AuthHandler
	Tour   *TournamentHandler
	Choreo *ChoreographyHandler
	Coach  *CoachHandler
	Judge  *JudgeHandler
	Staff  *SupportStaffHandler

	Tournament  models.Tournament
	USADelegate models.User
	FRADelegate models.User
	Admin       models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Tournament{}, &models.Gymnast{},
		&models.Choreography{}, &models.Coach{}, &models.Judge{},
		&models.SupportStaff{},
	))

	env := &testEnv{
		T:     t,
		E:     echo.New(),
		DB:    db,
		Token: token.NewService([]byte("test_secret"), time.Hour),
	}

	env.Auth = &AuthHandler{DB: db, Token: env.Token}
	env.Tour = &TournamentHandler{DB: db}
	env.Choreo = &ChoreographyHandler{DB: db}
	env.Coach = &CoachHandler{DB: db}
	env.Judge = &JudgeHandler{DB: db}
	env.Staff = &SupportStaffHandler{DB: db}

	env.Tournament = models.Tournament{
		Name:      "Campeonato Panamericano 2026",
		Type:      models.TournamentCampeonato,
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Location:  "Asuncion",
		Active:    true,
	}
	require.NoError(t, db.Create(&env.Tournament).Error)

	env.USADelegate = env.createUser("usa_delegate", "USA", models.RoleDelegate)
	env.FRADelegate = env.createUser("fra_delegate", "FRA", models.RoleDelegate)
	env.Admin = env.createUser("organizer", "PAN", models.RoleAdmin)

	return env
}

func (env *testEnv) createUser(username, country, role string) models.User {
	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)
	u := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Country:      country,
		Role:         role,
		Active:       true,
	}
	require.NoError(env.T, env.DB.Create(&u).Error)
	return u
}

func (env *testEnv) createGymnast(figID, country string, birthYear int) models.Gymnast {
	g := models.Gymnast{
		FigID:       figID,
		FirstName:   "Test",
		LastName:    "Gymnast" + figID,
		Gender:      "F",
		Country:     country,
		DateOfBirth: time.Date(birthYear, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:    "SENIOR",
	}
	require.NoError(env.T, env.DB.Create(&g).Error)
	return g
}

// doJSONRequest builds a request context like the real middleware
// would: verified claims already set when user is non-nil.
func (env *testEnv) doJSONRequest(method, path string, body any, user *models.User) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)

	if user != nil {
		raw, _, _, err := env.Token.Issue(user)
		require.NoError(env.T, err)
		claims, err := env.Token.Verify(raw)
		require.NoError(env.T, err)
		c.Set(mwauth.ClaimsKey, claims)
	}
	return rec, c
}

// tournamentCtx sets the :tournamentID route param plus any extra
// name/value pairs.
func (env *testEnv) tournamentCtx(method, path string, body any, user *models.User, extra ...string) (*httptest.ResponseRecorder, echo.Context) {
	rec, c := env.doJSONRequest(method, path, body, user)
	names := []string{"tournamentID"}
	values := []string{"1"}
	for i := 0; i+1 < len(extra); i += 2 {
		names = append(names, extra[i])
		values = append(values, extra[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return rec, c
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he
}

func requireStatus(t *testing.T, err error, code int) {
	t.Helper()
	require.Equal(t, code, httpError(t, err).Code)
}
