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

type JudgeHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *JudgeHandler) List(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	q := authz.Scope(h.DB, claims(c)).Where("tournament_id = ?", tournamentID)
	if s := c.QueryParam("status"); s != "" {
		q = q.Where("status = ?", s)
	}

	var items []models.Judge
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *JudgeHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.Judge
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "judge not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if !authz.CanAccess(claims(c), item.Country, "") {
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *JudgeHandler) Create(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req judgeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if fields := validateJudge(&req); len(fields) > 0 {
		return validationResponse(c, fields)
	}

	item := models.Judge{
		FigID:        req.FigID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Country:      authz.OwnCountry(claims(c)), // client value ignored on purpose
		Category:     req.Category,
		TournamentID: tournamentID,
		Status:       models.StatusPending,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
		"type":         "judge_created",
		"judgeID":      item.ID,
		"country":      item.Country,
		"tournamentID": item.TournamentID,
		"status":       item.Status,
	})
	indexRegistration(c, h.ES, judgeDoc(&item))

	return c.JSON(http.StatusCreated, item)
}

func (h *JudgeHandler) Patch(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Category string `json:"category"`
		Status   string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var item models.Judge
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "judge not found")
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
	if req.Category != "" {
		if !judgeCategories[req.Category] {
			return validationResponse(c, map[string]string{"category": "must be 1, 2, 3 or 4"})
		}
		item.Category = req.Category
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if moved {
		publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
			"type":    "judge_" + strings.ToLower(string(item.Status)),
			"judgeID": item.ID,
			"country": item.Country,
			"status":  item.Status,
		})
		indexRegistration(c, h.ES, judgeDoc(&item))
	}
	return c.JSON(http.StatusOK, item)
}

func (h *JudgeHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.Judge
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "judge not found")
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
		"type":    "judge_deleted",
		"judgeID": item.ID,
		"country": item.Country,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *JudgeHandler) Import(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req []judgeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty import")
	}

	created := make([]models.Judge, 0, len(req))
	for i, r := range req {
		if fields := validateJudge(&r); len(fields) > 0 || len(r.Country) != countryLen {
			return validationResponse(c, map[string]string{
				fmt.Sprintf("[%d]", i): "invalid judge row",
			})
		}
		created = append(created, models.Judge{
			FigID:        r.FigID,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Gender:       r.Gender,
			Country:      r.Country, // admin import keeps the supplied country
			Category:     r.Category,
			TournamentID: tournamentID,
			Status:       models.StatusRegistered,
		})
	}
	if err := h.DB.Create(&created).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(tournamentID), map[string]any{
		"type":         "judges_imported",
		"tournamentID": tournamentID,
		"count":        len(created),
	})
	return c.JSON(http.StatusCreated, created)
}

func judgeDoc(item *models.Judge) search.RegistrationDoc {
	return search.RegistrationDoc{
		EntityType:   "judge",
		EntityID:     item.ID,
		Name:         item.FirstName + " " + item.LastName,
		Country:      item.Country,
		TournamentID: item.TournamentID,
		Status:       string(item.Status),
		Category:     item.Category,
	}
}
