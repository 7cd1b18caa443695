package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
)

func TestCreateSupportStaff(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.tournamentCtx(http.MethodPost, "/", map[string]any{
		"first_name": "Pedro",
		"last_name":  "Gomez",
		"role":       "PHYSIOTHERAPIST",
		"country":    "PER", // ignored
	}, &env.USADelegate)
	require.NoError(t, env.Staff.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.SupportStaff
	require.NoError(t, env.DB.First(&item).Error)
	require.Equal(t, "USA", item.Country)
	require.Equal(t, models.StatusPending, item.Status)
}

func TestSupportStaffDeleteOnlyWhenPending(t *testing.T) {
	env := newTestEnv(t)
	item := models.SupportStaff{
		FirstName: "Seed", LastName: "Staff", Role: "DOCTOR",
		Country: "USA", TournamentID: env.Tournament.ID,
		Status: models.StatusRegistered,
	}
	require.NoError(t, env.DB.Create(&item).Error)

	_, c := env.tournamentCtx(http.MethodDelete, "/", nil, &env.USADelegate, "id", itoa(item.ID))
	requireStatus(t, env.Staff.Delete(c), http.StatusConflict)
}
