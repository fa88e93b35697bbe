package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	apps := protected.Group("/applications")
	{
		apps.GET("", handler.List)
		apps.POST("", handler.Apply)
		apps.GET("/export", handler.Export)
		apps.GET("/:id", handler.Get)
		apps.PUT("/:id", handler.UpdateStatus)
		apps.DELETE("/:id", handler.Withdraw)
	}
}

type ApplyRequest struct {
	VacancyID   int64  `json:"vacancyId" binding:"required,gt=0"`
	ResumeID    *int64 `json:"resumeId" binding:"omitempty,gt=0"`
	CoverLetter string `json:"coverLetter" binding:"max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,application_status"`
}

// List godoc
// @Summary      My applications
// @Tags         applications
// @Produce      json
// @Param        status  query     string  false  "pending, interview, response or rejected"
// @Success      200     {object}  response.Response{data=[]domain.Application}
// @Failure      400     {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	status := domain.ApplicationStatus(c.Query("status"))
	list, err := h.applicationUC.ListApplications(c.Request.Context(), currentUserID(c), status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", list)
}

// Apply godoc
// @Summary      Apply to a vacancy
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      ApplyRequest  true  "Application"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.applicationUC.Apply(c.Request.Context(), currentUserID(c), domain.ApplyInput{
		VacancyID:   req.VacancyID,
		ResumeID:    req.ResumeID,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// Get godoc
// @Summary      Get application
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, err := h.applicationUC.GetApplication(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", app)
}

// UpdateStatus godoc
// @Summary      Change application status
// @Description  Any status may follow any other. interview, response and rejected create a notification.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), currentUserID(c), id, domain.ApplicationStatus(req.Status))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}

// Withdraw godoc
// @Summary      Withdraw application
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.applicationUC.Withdraw(c.Request.Context(), currentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application withdrawn", nil)
}

// Export godoc
// @Summary      Export applications
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format  query  string  false  "xlsx (default) or csv"
// @Success      200
// @Failure      400  {object}  response.Response
// @Router       /applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Export(c *gin.Context) {
	file, err := h.applicationUC.Export(c.Request.Context(), currentUserID(c), c.Query("format"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
