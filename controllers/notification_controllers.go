package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/storefront-api/middlewares"
	"github.com/yeremiapane/storefront-api/services"
	"github.com/yeremiapane/storefront-api/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// GetAdminNotifications -> ?unread=true untuk yang belum dibaca saja
func (nc *NotificationController) GetAdminNotifications(c *gin.Context) {
	list, err := nc.Notifications.ListAdmin(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Admin notifications", list)
}

func (nc *NotificationController) MarkAdminNotificationRead(c *gin.Context) {
	id, ok := parseIDParam(c, "notif_id")
	if !ok {
		return
	}
	if err := nc.Notifications.MarkAdminRead(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", gin.H{"notif_id": id})
}

func (nc *NotificationController) MarkAllAdminNotificationsRead(c *gin.Context) {
	n, err := nc.Notifications.MarkAllAdminRead(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": n})
}

func (nc *NotificationController) DeleteAdminNotification(c *gin.Context) {
	id, ok := parseIDParam(c, "notif_id")
	if !ok {
		return
	}
	if err := nc.Notifications.DeleteAdmin(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}

func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}
	list, err := nc.Notifications.ListCustomer(c.Request.Context(), userID, c.Query("unread") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My notifications", list)
}

func (nc *NotificationController) MarkMyNotificationRead(c *gin.Context) {
	id, ok := parseIDParam(c, "notif_id")
	if !ok {
		return
	}
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}
	if err := nc.Notifications.MarkCustomerRead(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", gin.H{"notif_id": id})
}

func (nc *NotificationController) MarkAllMyNotificationsRead(c *gin.Context) {
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}
	n, err := nc.Notifications.MarkAllCustomerRead(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": n})
}

func (nc *NotificationController) DeleteMyNotification(c *gin.Context) {
	id, ok := parseIDParam(c, "notif_id")
	if !ok {
		return
	}
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}
	if err := nc.Notifications.DeleteCustomer(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
