package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
)

func TestCreateTournament(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/", map[string]any{
		"name":       "Copa Panamericana 2027",
		"type":       "COPA_PANAMERICANA",
		"start_date": "2027-05-10",
		"end_date":   "2027-05-14",
		"location":   "Lima",
	}, &env.Admin)
	require.NoError(t, env.Tour.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Tournament
	require.NoError(t, env.DB.Last(&item).Error)
	require.True(t, item.Active)
	require.Equal(t, "Lima", item.Location)
}

func TestCreateTournamentDateValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name  string
		start string
		end   string
		field string
	}{
		{"bad format", "10/05/2027", "2027-05-14", "start_date"},
		{"end before start", "2027-05-14", "2027-05-10", "end_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, c := env.doJSONRequest(http.MethodPost, "/", map[string]any{
				"name":       "Copa",
				"type":       "COPA_PANAMERICANA",
				"start_date": tc.start,
				"end_date":   tc.end,
			}, &env.Admin)
			require.NoError(t, env.Tour.Create(c))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, decodeMap(t, rec)["fields"].(map[string]any), tc.field)
		})
	}
}

func TestListTournamentsOnlyActive(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Tournament{
		Name: "Old Copa", Type: models.TournamentCopa,
		StartDate: env.Tournament.StartDate, EndDate: env.Tournament.EndDate,
		Active: false,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/", nil, &env.USADelegate)
	require.NoError(t, env.Tour.List(c))

	var items []models.Tournament
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, env.Tournament.ID, items[0].ID)
}

func TestDeleteTournamentWithRegistrationsDeactivates(t *testing.T) {
	env := newTestEnv(t)
	seedChoreography(t, env, "USA", models.StatusPending)

	rec, c := env.tournamentCtx(http.MethodDelete, "/", nil, &env.Admin)
	require.NoError(t, env.Tour.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// row survives, flagged inactive
	var item models.Tournament
	require.NoError(t, env.DB.First(&item, env.Tournament.ID).Error)
	require.False(t, item.Active)
}

func TestDeleteTournamentCountsEveryEntityType(t *testing.T) {
	seeds := map[string]func(t *testing.T, env *testEnv){
		"coach": func(t *testing.T, env *testEnv) {
			seedCoach(t, env, "USA", models.StatusSubmitted)
		},
		"judge": func(t *testing.T, env *testEnv) {
			require.NoError(t, env.DB.Create(&models.Judge{
				FigID: "J1", FirstName: "A", LastName: "B", Country: "USA",
				Category: "1", TournamentID: env.Tournament.ID,
				Status: models.StatusPending,
			}).Error)
		},
		"support staff": func(t *testing.T, env *testEnv) {
			require.NoError(t, env.DB.Create(&models.SupportStaff{
				FirstName: "A", LastName: "B", Role: "DOCTOR", Country: "USA",
				TournamentID: env.Tournament.ID, Status: models.StatusPending,
			}).Error)
		},
	}
	for name, seed := range seeds {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			seed(t, env)

			rec, c := env.tournamentCtx(http.MethodDelete, "/", nil, &env.Admin)
			require.NoError(t, env.Tour.Delete(c))
			require.Equal(t, http.StatusNoContent, rec.Code)

			// still registered somewhere, so deactivated rather than dropped
			var item models.Tournament
			require.NoError(t, env.DB.First(&item, env.Tournament.ID).Error)
			require.False(t, item.Active)
		})
	}
}

func TestDeleteEmptyTournamentRemovesRow(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.tournamentCtx(http.MethodDelete, "/", nil, &env.Admin)
	require.NoError(t, env.Tour.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Tournament{}).Count(&count).Error)
	require.Zero(t, count)
}
