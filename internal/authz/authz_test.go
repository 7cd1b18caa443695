package authz

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

func delegate(country string) *token.Claims {
	return &token.Claims{Country: country, Role: models.RoleDelegate}
}

func admin() *token.Claims {
	return &token.Claims{Country: "PAN", Role: models.RoleAdmin}
}

func TestCanAccess(t *testing.T) {
	require.True(t, CanAccess(delegate("USA"), "USA", ""))
	require.False(t, CanAccess(delegate("USA"), "FRA", ""))
	require.False(t, CanAccess(delegate("USA"), "USA", models.RoleAdmin))

	require.True(t, CanAccess(admin(), "USA", ""))
	require.True(t, CanAccess(admin(), "FRA", models.RoleAdmin))

	require.False(t, CanAccess(nil, "USA", ""))
}

func TestScope(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Coach{}))

	rows := []models.Coach{
		{FigID: "C1", FirstName: "a", LastName: "a", Country: "USA", Level: "L1", TournamentID: 1},
		{FigID: "C2", FirstName: "b", LastName: "b", Country: "FRA", Level: "L2", TournamentID: 1},
		{FigID: "C3", FirstName: "c", LastName: "c", Country: "USA", Level: "L3", TournamentID: 1},
	}
	require.NoError(t, db.Create(&rows).Error)

	var got []models.Coach
	require.NoError(t, Scope(db, delegate("USA")).Find(&got).Error)
	require.Len(t, got, 2)
	for _, c := range got {
		require.Equal(t, "USA", c.Country)
	}

	got = nil
	require.NoError(t, Scope(db, admin()).Find(&got).Error)
	require.Len(t, got, 3)

	// no claims means no rows, never all rows
	got = nil
	require.NoError(t, Scope(db, nil).Find(&got).Error)
	require.Empty(t, got)
}
