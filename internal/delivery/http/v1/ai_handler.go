package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
)

type AIHandler struct {
	aiUC domain.AIUsecase
}

func NewAIHandler(protected *gin.RouterGroup, aiUC domain.AIUsecase) {
	handler := &AIHandler{aiUC: aiUC}

	ai := protected.Group("/ai")
	{
		ai.POST("/analyze-vacancy", handler.AnalyzeVacancy)
		ai.GET("/analysis-history", handler.History)
		ai.POST("/adapt-resume", handler.AdaptResume)
	}
}

type AnalyzeRequest struct {
	VacancyID *int64 `json:"vacancyId" binding:"omitempty,gt=0"`
	Text      string `json:"text" binding:"max=20000"`
	ResumeID  *int64 `json:"resumeId" binding:"omitempty,gt=0"`
}

type AdaptRequest struct {
	ResumeID  int64 `json:"resumeId" binding:"required,gt=0"`
	VacancyID int64 `json:"vacancyId" binding:"required,gt=0"`
}

// AnalyzeVacancy godoc
// @Summary      Analyze a vacancy
// @Description  Compares the vacancy (stored or free text) with the user's or the given resume's skills.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      AnalyzeRequest  true  "vacancyId or text"
// @Success      200   {object}  response.Response{data=domain.VacancyAnalysis}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /ai/analyze-vacancy [post]
// @Security     BearerAuth
func (h *AIHandler) AnalyzeVacancy(c *gin.Context) {
	var req AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}
	analysis, err := h.aiUC.AnalyzeVacancy(c.Request.Context(), currentUserID(c), domain.AnalyzeInput{
		VacancyID: req.VacancyID,
		Text:      req.Text,
		ResumeID:  req.ResumeID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", analysis)
}

// History godoc
// @Summary      Analysis history
// @Tags         ai
// @Produce      json
// @Param        limit  query     int  false  "Max entries (default 20)"
// @Success      200    {object}  response.Response{data=[]domain.VacancyAnalysis}
// @Router       /ai/analysis-history [get]
// @Security     BearerAuth
func (h *AIHandler) History(c *gin.Context) {
	limit, ok := intQuery(c, "limit", domain.DefaultPageLimit)
	if !ok {
		return
	}
	list, err := h.aiUC.AnalysisHistory(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", list)
}

// AdaptResume godoc
// @Summary      Adapt a resume to a vacancy
// @Description  Stores the result as a new resume linked to the original.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      AdaptRequest  true  "Resume and vacancy"
// @Success      201   {object}  response.Response{data=domain.Resume}
// @Failure      404   {object}  response.Response
// @Router       /ai/adapt-resume [post]
// @Security     BearerAuth
func (h *AIHandler) AdaptResume(c *gin.Context) {
	var req AdaptRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.aiUC.AdaptResume(c.Request.Context(), currentUserID(c), domain.AdaptInput{
		ResumeID:  req.ResumeID,
		VacancyID: req.VacancyID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume adapted", res)
}
