package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
)

type NotificationHandler struct {
	notificationRepo repos.NotificationRepo
}

func NewNotificationHandler(notificationRepo repos.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

func (nh *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	unreadOnly := c.Query("unread") == "true"
	notifications, err := nh.notificationRepo.GetByUserID(c.Request.Context(), nil, userID, unreadOnly)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"notifications": notifications})
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if err := nh.notificationRepo.MarkRead(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"read": true})
}
