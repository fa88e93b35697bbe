package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(protected *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.GET("/unread-count", handler.UnreadCount)
		notifications.PUT("/read-all", handler.MarkAllRead)
		notifications.PUT("/:id/read", handler.MarkRead)
		notifications.DELETE("/:id", handler.Delete)
	}
}

type NotificationMeta struct {
	Total  int   `json:"total"`
	Unread int64 `json:"unread"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type UpdatedResponse struct {
	Updated int64 `json:"updated"`
}

// List godoc
// @Summary      Notifications
// @Tags         notifications
// @Produce      json
// @Param        unread  query     bool  false  "Only unread"
// @Success      200     {object}  response.Response{data=[]domain.Notification,meta=NotificationMeta}
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	list, unread, err := h.notificationUC.ListNotifications(c.Request.Context(), currentUserID(c), unreadOnly)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list, NotificationMeta{Total: len(list), Unread: unread})
}

// UnreadCount godoc
// @Summary      Unread notifications count
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response{data=CountResponse}
// @Router       /notifications/unread-count [get]
// @Security     BearerAuth
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationUC.UnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", CountResponse{Count: count})
}

// MarkRead godoc
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  response.Response{data=domain.Notification}
// @Failure      404  {object}  response.Response
// @Router       /notifications/{id}/read [put]
// @Security     BearerAuth
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.notificationUC.MarkRead(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", n)
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response{data=UpdatedResponse}
// @Router       /notifications/read-all [put]
// @Security     BearerAuth
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationUC.MarkAllRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", UpdatedResponse{Updated: updated})
}

// Delete godoc
// @Summary      Delete notification
// @Tags         notifications
// @Produce      json
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notifications/{id} [delete]
// @Security     BearerAuth
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.notificationUC.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notification deleted", nil)
}
