package handlers

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultAccessLimit = 50
	maxAccessLimit     = 500
)

// AccessHandler exposes the access audit trail to administrators
type AccessHandler struct {
	accessRepo repository.AccessRepository
}

func NewAccessHandler(accessRepo repository.AccessRepository) *AccessHandler {
	return &AccessHandler{accessRepo: accessRepo}
}

// ListAccess godoc
// @Summary List access records
// @Description List successful logins and token refreshes, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param email query string false "Filter by email"
// @Param from query string false "Only records created at or after (RFC3339)"
// @Param to query string false "Only records created at or before (RFC3339)"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.AccessRecord
// @Failure 401 {object} models.ErrorResponse "UNAUTHORIZED"
// @Failure 422 {object} models.ErrorResponse "Invalid query"
// @Router /admin/access [get]
func (h *AccessHandler) ListAccess(c *gin.Context) {
	filter, err := accessFilterFromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Errors: models.ErrorBody{Msg: "NOT_VALID", Param: err.Error()},
		})
		return
	}

	records, err := h.accessRepo.List(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	if records == nil {
		records = []models.AccessRecord{}
	}

	c.JSON(http.StatusOK, records)
}

type queryError string

func (e queryError) Error() string { return string(e) }

func accessFilterFromQuery(c *gin.Context) (repository.AccessFilter, error) {
	var filter repository.AccessFilter

	if email := c.Query("email"); email != "" {
		normalized := repository.NormalizeEmail(email)
		filter.Email = &normalized
	}
	for param, dst := range map[string]**time.Time{"from": &filter.CreatedAfter, "to": &filter.CreatedBefore} {
		if v := c.Query(param); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return filter, queryError(param)
			}
			*dst = &t
		}
	}

	limit := defaultAccessLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, queryError("limit")
		}
		limit = min(n, maxAccessLimit)
	}
	filter.Limit = &limit

	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, queryError("offset")
		}
		filter.Offset = &n
	}
	return filter, nil
}
