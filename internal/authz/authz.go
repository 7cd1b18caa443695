package authz

import (
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

// CanAccess is the single authorization predicate: admins see
// everything, delegates only their own country, and nothing below
// requiredRole passes when one is demanded.
func CanAccess(claims *token.Claims, resourceCountry, requiredRole string) bool {
	if claims == nil {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	if requiredRole == models.RoleAdmin {
		return false
	}
	return claims.Country == resourceCountry
}

// Scope constrains a list query to the caller's country. Admins get
// the unfiltered query; for everyone else the filter is mandatory and
// no client parameter can widen it.
func Scope(db *gorm.DB, claims *token.Claims) *gorm.DB {
	if claims != nil && claims.Role == models.RoleAdmin {
		return db
	}
	country := ""
	if claims != nil {
		country = claims.Country
	}
	return db.Where("country = ?", country)
}

// OwnCountry returns the country every write must be tagged with.
// Client-supplied values are overwritten with this, unconditionally.
func OwnCountry(claims *token.Claims) string {
	if claims == nil {
		return ""
	}
	return claims.Country
}
