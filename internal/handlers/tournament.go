package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
)

type TournamentHandler struct {
	DB *gorm.DB
}

func (h *TournamentHandler) List(c echo.Context) error {
	var items []models.Tournament
	if err := h.DB.Where("active = ?", true).Order("start_date ASC").Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TournamentHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var item models.Tournament
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tournament not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *TournamentHandler) Create(c echo.Context) error {
	var req tournamentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if fields := validateTournament(&req); len(fields) > 0 {
		return validationResponse(c, fields)
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return validationResponse(c, map[string]string{"start_date": "must be YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return validationResponse(c, map[string]string{"end_date": "must be YYYY-MM-DD"})
	}
	if end.Before(start) {
		return validationResponse(c, map[string]string{"end_date": "must not be before start_date"})
	}

	item := models.Tournament{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Location:    req.Location,
		Active:      true,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *TournamentHandler) Patch(c echo.Context) error {
	id, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Location    *string `json:"location"`
		Active      *bool   `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var item models.Tournament
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "tournament not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *TournamentHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	// tournaments with registrations are deactivated, never dropped
	count, err := registrationCount(h.DB, id)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if count > 0 {
		if err := h.DB.Model(&models.Tournament{}).Where("id = ?", id).Update("active", false).Error; err != nil {
			return errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.DB.Delete(&models.Tournament{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

// registrationCount totals every registrable entity tied to the
// tournament; all four tables reference tournaments.id.
func registrationCount(db *gorm.DB, tournamentID uint) (int64, error) {
	var total int64
	for _, model := range []any{
		&models.Choreography{}, &models.Coach{}, &models.Judge{}, &models.SupportStaff{},
	} {
		var n int64
		if err := db.Model(model).Where("tournament_id = ?", tournamentID).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
