package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
	maxUpload int64
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase, maxUpload int64) {
	handler := &ProfileHandler{profileUC: profileUC, maxUpload: maxUpload}

	profile := protected.Group("/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PUT("", handler.UpdateProfile)
		profile.POST("/avatar", handler.UploadAvatar)
	}
}

// GetProfile godoc
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.profileUC.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", user)
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Partial update; omitted fields are left unchanged.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ProfileUpdate  true  "Changed fields"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Router       /profile [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req domain.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.profileUC.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Description  Accepts jpg/png/gif; stored as a JPEG thumbnail of at most 256px.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Image"
// @Success      200     {object}  response.Response{data=domain.User}
// @Failure      400     {object}  response.Response
// @Router       /profile/avatar [post]
// @Security     BearerAuth
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	filename, data, ok := readUpload(c, "avatar", h.maxUpload)
	if !ok {
		return
	}
	user, err := h.profileUC.UploadAvatar(c.Request.Context(), currentUserID(c), filename, data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Avatar updated", user)
}
