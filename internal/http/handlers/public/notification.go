package public

import (
	"strconv"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the user's notification feed.
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	notifications, total, err := h.NotificationService.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     uid,
		OnlyUnread: c.Query("unread") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "notification fetch failed", err)
		return
	}
	response.SuccessWithPage(c, notifications, response.BuildPagination(page, pageSize, total))
}

// MarkNotificationRead stamps one notification as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "notification id invalid", nil)
		return
	}
	if err := h.NotificationService.MarkRead(uint(id), uid); err != nil {
		respondError(c, response.CodeInternal, "notification update failed", err)
		return
	}
	response.Success(c, gin.H{"read": true})
}

// GetUnreadCount returns the unread badge count.
func (h *Handler) GetUnreadCount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	count, err := h.NotificationService.UnreadCount(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "notification fetch failed", err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}
