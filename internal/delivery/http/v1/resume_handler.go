package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
)

type ResumeHandler struct {
	resumeUC  domain.ResumeUsecase
	maxUpload int64
}

func NewResumeHandler(protected *gin.RouterGroup, resumeUC domain.ResumeUsecase, maxUpload int64) {
	handler := &ResumeHandler{resumeUC: resumeUC, maxUpload: maxUpload}

	resumes := protected.Group("/resumes")
	{
		resumes.GET("", handler.List)
		resumes.POST("", handler.Create)
		resumes.GET("/:id", handler.Get)
		resumes.PUT("/:id", handler.Update)
		resumes.DELETE("/:id", handler.Delete)
		resumes.POST("/:id/file", handler.UploadFile)
	}
}

type ResumeRequest struct {
	Name    string   `json:"name" binding:"required,min=1,max=200"`
	Content string   `json:"content" binding:"max=20000"`
	Skills  []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50,valid_skill"`
}

type UpdateResumeRequest struct {
	Name    string   `json:"name" binding:"omitempty,max=200"`
	Content string   `json:"content" binding:"max=20000"`
	Skills  []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50,valid_skill"`
}

// List godoc
// @Summary      List resumes
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Resume}
// @Router       /resumes [get]
// @Security     BearerAuth
func (h *ResumeHandler) List(c *gin.Context) {
	list, err := h.resumeUC.ListResumes(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", list)
}

// Get godoc
// @Summary      Get resume
// @Tags         resumes
// @Produce      json
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [get]
// @Security     BearerAuth
func (h *ResumeHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.resumeUC.GetResume(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", res)
}

// Create godoc
// @Summary      Create resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        body  body      ResumeRequest  true  "Resume"
// @Success      201   {object}  response.Response{data=domain.Resume}
// @Failure      400   {object}  response.Response
// @Router       /resumes [post]
// @Security     BearerAuth
func (h *ResumeHandler) Create(c *gin.Context) {
	var req ResumeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.resumeUC.CreateResume(c.Request.Context(), currentUserID(c), domain.ResumeInput{
		Name:    req.Name,
		Content: req.Content,
		Skills:  req.Skills,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume created", res)
}

// Update godoc
// @Summary      Update resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Resume ID"
// @Param        body  body      UpdateResumeRequest  true  "Changed fields"
// @Success      200   {object}  response.Response{data=domain.Resume}
// @Failure      404   {object}  response.Response
// @Router       /resumes/{id} [put]
// @Security     BearerAuth
func (h *ResumeHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateResumeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.resumeUC.UpdateResume(c.Request.Context(), currentUserID(c), id, domain.ResumeInput{
		Name:    req.Name,
		Content: req.Content,
		Skills:  req.Skills,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated", res)
}

// Delete godoc
// @Summary      Delete resume
// @Tags         resumes
// @Produce      json
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [delete]
// @Security     BearerAuth
func (h *ResumeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.resumeUC.DeleteResume(c.Request.Context(), currentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume deleted", nil)
}

// UploadFile godoc
// @Summary      Attach resume file
// @Description  pdf, doc, docx or txt.
// @Tags         resumes
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Resume ID"
// @Param        file  formData  file  true  "Document"
// @Success      200   {object}  response.Response{data=domain.Resume}
// @Failure      400   {object}  response.Response
// @Router       /resumes/{id}/file [post]
// @Security     BearerAuth
func (h *ResumeHandler) UploadFile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	filename, data, ok := readUpload(c, "file", h.maxUpload)
	if !ok {
		return
	}
	res, err := h.resumeUC.AttachFile(c.Request.Context(), currentUserID(c), id, filename, data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "File attached", res)
}
