package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/authz"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/fig"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/mykafka"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/service/search"
)

type ChoreographyHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *ChoreographyHandler) List(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	q := authz.Scope(h.DB, claims(c)).
		Where("tournament_id = ?", tournamentID).
		Preload("Gymnasts")
	if s := c.QueryParam("status"); s != "" {
		q = q.Where("status = ?", s)
	}

	var items []models.Choreography
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ChoreographyHandler) Get(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.Choreography
	if err := h.DB.Preload("Gymnasts").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "choreography not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if !authz.CanAccess(claims(c), item.Country, "") {
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ChoreographyHandler) Create(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req choreographyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if fields := validateChoreography(&req); len(fields) > 0 {
		return validationResponse(c, fields)
	}

	cl := claims(c)
	country := authz.OwnCountry(cl)

	var gymnasts []models.Gymnast
	if err := h.DB.Where("id IN ?", req.GymnastIDs).Find(&gymnasts).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if len(gymnasts) != len(req.GymnastIDs) {
		return validationResponse(c, map[string]string{"gymnast_ids": "unknown gymnast id"})
	}
	for _, g := range gymnasts {
		if g.Country != country && cl.Role != models.RoleAdmin {
			return validationResponse(c, map[string]string{
				"gymnast_ids": "gymnast " + g.FigID + " is not licensed for " + country,
			})
		}
	}

	item := models.Choreography{
		Name:         choreographyName(gymnasts),
		Category:     oldestCategory(gymnasts),
		Type:         req.Type,
		Country:      country, // client value ignored on purpose
		TournamentID: tournamentID,
		Status:       models.StatusPending,
		Notes:        req.Notes,
		Gymnasts:     gymnasts,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
		"type":           "choreography_created",
		"choreographyID": item.ID,
		"country":        item.Country,
		"tournamentID":   item.TournamentID,
		"status":         item.Status,
	})
	indexRegistration(c, h.ES, search.RegistrationDoc{
		EntityType:   "choreography",
		EntityID:     item.ID,
		Name:         item.Name,
		Country:      item.Country,
		TournamentID: item.TournamentID,
		Status:       string(item.Status),
		Category:     item.Category,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *ChoreographyHandler) Patch(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Notes  *string `json:"notes"`
		Status string  `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var item models.Choreography
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "choreography not found")
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
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if moved {
		publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
			"type":           "choreography_" + strings.ToLower(string(item.Status)),
			"choreographyID": item.ID,
			"country":        item.Country,
			"status":         item.Status,
		})
		indexRegistration(c, h.ES, search.RegistrationDoc{
			EntityType:   "choreography",
			EntityID:     item.ID,
			Name:         item.Name,
			Country:      item.Country,
			TournamentID: item.TournamentID,
			Status:       string(item.Status),
			Category:     item.Category,
		})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ChoreographyHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var item models.Choreography
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "choreography not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if !authz.CanAccess(claims(c), item.Country, "") {
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}
	if item.Status != models.StatusPending {
		return echo.NewHTTPError(http.StatusConflict, "only pending registrations can be removed")
	}

	if err := h.DB.Select("Gymnasts").Delete(&item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(item.ID), map[string]any{
		"type":           "choreography_deleted",
		"choreographyID": item.ID,
		"country":        item.Country,
	})
	return c.NoContent(http.StatusNoContent)
}

// Import is the administrative bulk path: rows arrive already
// confirmed and are created REGISTERED directly, bypassing the
// delegate workflow.
func (h *ChoreographyHandler) Import(c echo.Context) error {
	tournamentID, err := uintParam(c, "tournamentID")
	if err != nil {
		return err
	}

	var req []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Type     string `json:"type"`
		Country  string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created := make([]models.Choreography, 0, len(req))
	for i, r := range req {
		if _, ok := GymnastCounts[r.Type]; !ok || !choreographyCategories[r.Category] || len(r.Country) != countryLen {
			return validationResponse(c, map[string]string{
				fmt.Sprintf("[%d]", i): "invalid type, category or country",
			})
		}
		created = append(created, models.Choreography{
			Name:         r.Name,
			Category:     r.Category,
			Type:         r.Type,
			Country:      r.Country,
			TournamentID: tournamentID,
			Status:       models.StatusRegistered,
		})
	}
	if len(created) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty import")
	}
	if err := h.DB.Create(&created).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicRegistrationEvents, fmt.Sprint(tournamentID), map[string]any{
		"type":         "choreographies_imported",
		"tournamentID": tournamentID,
		"count":        len(created),
	})
	return c.JSON(http.StatusCreated, created)
}

// choreographyName joins the gymnasts' surnames, the convention used
// on start lists.
func choreographyName(gymnasts []models.Gymnast) string {
	names := make([]string, len(gymnasts))
	for i, g := range gymnasts {
		names[i] = strings.ToUpper(g.LastName)
	}
	return strings.Join(names, "-")
}

// oldestCategory follows the FIG rule: a mixed-age team competes in
// the category of its oldest member.
func oldestCategory(gymnasts []models.Gymnast) string {
	now := time.Now()
	rank := map[string]int{fig.CategoryYouth: 0, fig.CategoryJunior: 1, fig.CategorySenior: 2}
	best := fig.CategoryYouth
	for _, g := range gymnasts {
		cat := g.Category
		if cat == "" && !g.DateOfBirth.IsZero() {
			cat = fig.CategoryFor(g.DateOfBirth, now)
		}
		if rank[cat] > rank[best] {
			best = cat
		}
	}
	return best
}
