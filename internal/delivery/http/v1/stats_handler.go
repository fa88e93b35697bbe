package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
)

type StatsHandler struct {
	statsUC domain.StatsUsecase
}

func NewStatsHandler(protected *gin.RouterGroup, statsUC domain.StatsUsecase) {
	handler := &StatsHandler{statsUC: statsUC}
	protected.GET("/stats", handler.Get)
}

// Get godoc
// @Summary      Dashboard statistics
// @Description  Derived from the user's data; reading never changes it.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Stats}
// @Router       /stats [get]
// @Security     BearerAuth
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.statsUC.GetStats(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", stats)
}
