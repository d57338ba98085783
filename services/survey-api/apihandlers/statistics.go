package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	mw "github.com/taufikRahadi/sisupel/pkg/apihelpers/middlewares"
	jwthandling "github.com/taufikRahadi/sisupel/pkg/jwt-handling"
	pc "github.com/taufikRahadi/sisupel/pkg/permission-checker"
	"github.com/taufikRahadi/sisupel/pkg/surveystats"
)

func (h *HttpEndpoints) AddStatisticsAPI(rg *gin.RouterGroup) {
	statsGroup := rg.Group("/statistics")
	statsGroup.Use(mw.GetAndValidateSurveyUserJWT(h.tokenSignKey))

	selfGroup := statsGroup.Group("/self")
	selfGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_CALCULATE_SELF_SURVEY))
	{
		selfGroup.GET("/average", h.getSelfAverage)
		selfGroup.GET("/essays", h.getSelfEssayCounts)
	}

	unitGroup := statsGroup.Group("/unit/:unitID")
	unitGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_CALCULATE_UNIT_SURVEY))
	{
		unitGroup.GET("/average", h.getUnitAverage)
		unitGroup.GET("/series", h.getUnitSeries)
		unitGroup.GET("/essays", h.getUnitEssayCounts)
	}

	globalGroup := statsGroup.Group("/global")
	globalGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_CALCULATE_GLOBAL_SURVEY))
	{
		globalGroup.GET("/average", h.getGlobalAverage)
		globalGroup.GET("/series", h.getGlobalSeries)
		globalGroup.GET("/essays", h.getGlobalEssayCounts)
		globalGroup.GET("/ranking/respondents", h.getRespondentRanking)
		globalGroup.GET("/ranking/units", h.getUnitRanking)
	}
}

// statsError maps engine sentinels onto HTTP codes.
func statsError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, surveystats.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no survey data"})
	case errors.Is(err, surveystats.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, surveystats.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error(operation+": aggregation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseDateRange reads optional from/to query params. Both must be set
// together; absent means nil.
func parseDateRange(c *gin.Context) (*surveystats.DateRange, bool) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil, true
	}
	if fromStr == "" || toStr == "" {
		return nil, false
	}

	from, err := time.Parse(dateParamLayout, fromStr)
	if err != nil {
		return nil, false
	}
	to, err := time.Parse(dateParamLayout, toStr)
	if err != nil {
		return nil, false
	}
	return &surveystats.DateRange{From: from, To: to}, true
}

func (h *HttpEndpoints) getSelfAverage(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	result, err := h.statsService.CalculateSelfAverage(token.ID)
	if err != nil {
		statsError(c, "getSelfAverage", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HttpEndpoints) getSelfEssayCounts(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	counts, err := h.statsService.CountEssays(surveystats.EssayScope{UserID: token.ID})
	if err != nil {
		statsError(c, "getSelfEssayCounts", err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *HttpEndpoints) getUnitAverage(c *gin.Context) {
	unitID := c.Param("unitID")
	all := c.Query("all") == "true"

	result, err := h.statsService.CalculateUnitAverage(unitID, all)
	if err != nil {
		statsError(c, "getUnitAverage", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HttpEndpoints) getUnitSeries(c *gin.Context) {
	unitID := c.Param("unitID")
	accumulative := c.Query("accumulative") == "true"

	rng, ok := parseDateRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	result, err := h.statsService.CalculateUnitSeries(unitID, rng, accumulative)
	if err != nil {
		statsError(c, "getUnitSeries", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HttpEndpoints) getUnitEssayCounts(c *gin.Context) {
	unitID := c.Param("unitID")

	counts, err := h.statsService.CountEssays(surveystats.EssayScope{UnitID: unitID})
	if err != nil {
		statsError(c, "getUnitEssayCounts", err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *HttpEndpoints) getGlobalAverage(c *gin.Context) {
	all := c.Query("all") == "true"

	result, err := h.statsService.CalculateGlobalAverage(all)
	if err != nil {
		statsError(c, "getGlobalAverage", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HttpEndpoints) getGlobalSeries(c *gin.Context) {
	accumulative := c.Query("accumulative") == "true"

	rng, ok := parseDateRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	result, err := h.statsService.CalculateGlobalSeries(rng, accumulative)
	if err != nil {
		statsError(c, "getGlobalSeries", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HttpEndpoints) getGlobalEssayCounts(c *gin.Context) {
	counts, err := h.statsService.CountEssays(surveystats.EssayScope{})
	if err != nil {
		statsError(c, "getGlobalEssayCounts", err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func parseRankingParams(c *gin.Context) (limit int64, direction surveystats.SortDirection, ok bool) {
	limit = 10
	if limitStr := c.Query("limit"); limitStr != "" {
		var err error
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit < 1 {
			return 0, surveystats.SortAsc, false
		}
	}
	return limit, surveystats.ParseSortDirection(c.DefaultQuery("sort", "asc")), true
}

func (h *HttpEndpoints) getRespondentRanking(c *gin.Context) {
	roleName := c.DefaultQuery("role", pc.ROLE_NAME_FRONT_DESK)

	limit, direction, ok := parseRankingParams(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	rng, ok := parseDateRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	ranking, err := h.statsService.RankRespondentsByRole(roleName, limit, direction, rng)
	if err != nil {
		statsError(c, "getRespondentRanking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": ranking})
}

func (h *HttpEndpoints) getUnitRanking(c *gin.Context) {
	limit, direction, ok := parseRankingParams(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	rng, ok := parseDateRange(c)
	if !ok || rng == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a from/to date range is required"})
		return
	}

	ranking, err := h.statsService.RankUnits(limit, direction, *rng)
	if err != nil {
		statsError(c, "getUnitRanking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": ranking})
}
