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

type SupportStaffHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *SupportStaffHandler) List(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	q := authz.Scope(h.DB, claims(c)).Where("tournament_id = ?", tournamentID)
	if s := c.QueryParam("status"); s != "" {
		q = q.Where("status = ?", s)
	}

	var items []models.SupportStaff
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SupportStaffHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.SupportStaff
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "support staff not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if !authz.CanAccess(claims(c), item.Country, "") {
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *SupportStaffHandler) Create(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req supportStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if fields := validateSupportStaff(&req); len(fields) > 0 {
		return validationResponse(c, fields)
	}

	item := models.SupportStaff{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Country:      authz.OwnCountry(claims(c)), // client value ignored on purpose
		TournamentID: tournamentID,
		Status:       models.StatusPending,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
		"type":         "support_staff_created",
		"staffID":      item.ID,
		"country":      item.Country,
		"tournamentID": item.TournamentID,
		"status":       item.Status,
	})
	indexRegistration(c, h.ES, staffDoc(&item))

	return c.JSON(http.StatusCreated, item)
}

func (h *SupportStaffHandler) Patch(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var item models.SupportStaff
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "support staff not found")
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
	if req.Role != "" {
		item.Role = req.Role
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if moved {
		publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
			"type":    "support_staff_" + strings.ToLower(string(item.Status)),
			"staffID": item.ID,
			"country": item.Country,
			"status":  item.Status,
		})
		indexRegistration(c, h.ES, staffDoc(&item))
	}
	return c.JSON(http.StatusOK, item)
}

func (h *SupportStaffHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.SupportStaff
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "support staff not found")
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
		"type":    "support_staff_deleted",
		"staffID": item.ID,
		"country": item.Country,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *SupportStaffHandler) Import(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req []supportStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty import")
	}

	created := make([]models.SupportStaff, 0, len(req))
	for i, r := range req {
		if fields := validateSupportStaff(&r); len(fields) > 0 || len(r.Country) != countryLen {
			return validationResponse(c, map[string]string{
				fmt.Sprintf("[%d]", i): "invalid support staff row",
			})
		}
		created = append(created, models.SupportStaff{
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Role:         r.Role,
			Country:      r.Country, // admin import keeps the supplied country
			TournamentID: tournamentID,
			Status:       models.StatusRegistered,
		})
	}
	if err := h.DB.Create(&created).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(tournamentID), map[string]any{
		"type":         "support_staff_imported",
		"tournamentID": tournamentID,
		"count":        len(created),
	})
	return c.JSON(http.StatusCreated, created)
}

func staffDoc(item *models.SupportStaff) search.RegistrationDoc {
	return search.RegistrationDoc{
		EntityType:   "support_staff",
		EntityID:     item.ID,
		Name:         item.FirstName + " " + item.LastName,
		Country:      item.Country,
		TournamentID: item.TournamentID,
		Status:       string(item.Status),
		Category:     item.Role,
	}
}
