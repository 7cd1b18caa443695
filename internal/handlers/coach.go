package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/authz"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/mykafka"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/service/search"
)

type CoachHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *CoachHandler) List(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	q := authz.Scope(h.DB, claims(c)).Where("tournament_id = ?", tournamentID)
	if s := c.QueryParam("status"); s != "" {
		q = q.Where("status = ?", s)
	}

	var items []models.Coach
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CoachHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.Coach
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "coach not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if !authz.CanAccess(claims(c), item.Country, "") {
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CoachHandler) Create(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req coachRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if fields := validateCoach(&req); len(fields) > 0 {
		return validationResponse(c, fields)
	}

	item := models.Coach{
		FigID:        req.FigID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Country:      authz.OwnCountry(claims(c)), // client value ignored on purpose
		Level:        req.Level,
		TournamentID: tournamentID,
		Status:       models.StatusPending,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
		"type":         "coach_created",
		"coachID":      item.ID,
		"country":      item.Country,
		"tournamentID": item.TournamentID,
		"status":       item.Status,
	})
	indexRegistration(c, h.ES, coachDoc(&item))

	return c.JSON(http.StatusCreated, item)
}

func (h *CoachHandler) Patch(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Level  string `json:"level"`
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var item models.Coach
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "coach not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if !authz.CanAccess(claims(c), item.Country, "") {
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}

	next, moved, err := applyTransition(item.Status, req.Status)
	if err != nil {
		return err
	}
	item.Status = next
	if req.Level != "" {
		if !coachLevels[req.Level] {
			return validationResponse(c, map[string]string{"level": "must be one of L1, L2, L3, LHB, LBR"})
		}
		item.Level = req.Level
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if moved {
		publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
			"type":    "coach_" + strings.ToLower(string(item.Status)),
			"coachID": item.ID,
			"country": item.Country,
			"status":  item.Status,
		})
		indexRegistration(c, h.ES, coachDoc(&item))
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CoachHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.Coach
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "coach not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if !authz.CanAccess(claims(c), item.Country, "") {
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}
	if item.Status != models.StatusPending {
		return echo.NewHTTPError(http.StatusConflict, "only pending registrations can be removed")
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
		"type":    "coach_deleted",
		"coachID": item.ID,
		"country": item.Country,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CoachHandler) Import(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req []coachRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty import")
	}

	created := make([]models.Coach, 0, len(req))
	for i, r := range req {
		if fields := validateCoach(&r); len(fields) > 0 || len(r.Country) != countryLen {
			return validationResponse(c, map[string]string{
				fmt.Sprintf("[%d]", i): "invalid coach row",
			})
		}
		created = append(created, models.Coach{
			FigID:        r.FigID,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Gender:       r.Gender,
			Country:      r.Country, // admin import keeps the supplied country
			Level:        r.Level,
			TournamentID: tournamentID,
			Status:       models.StatusRegistered,
		})
	}
	if err := h.DB.Create(&created).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(tournamentID), map[string]any{
		"type":         "coaches_imported",
		"tournamentID": tournamentID,
		"count":        len(created),
	})
	return c.JSON(http.StatusCreated, created)
}

func coachDoc(item *models.Coach) search.RegistrationDoc {
	return search.RegistrationDoc{
		EntityType:   "coach",
		EntityID:     item.ID,
		Name:         item.FirstName + " " + item.LastName,
		Country:      item.Country,
		TournamentID: item.TournamentID,
		Status:       string(item.Status),
		Category:     item.Level,
	}
}
