package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/httpapi/middleware"
)

// DashboardStats serves the role-appropriate aggregate view.
func (h *Handler) DashboardStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "not authenticated")
		return
	}

	if user.IsAdmin() {
		stats, err := h.Dashboard.AdminStats(c.Request.Context())
		if err != nil {
			failErr(c, err)
			return
		}
		common.OK(c, stats)
		return
	}

	stats, err := h.Dashboard.StudentStats(c.Request.Context(), user.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, stats)
}

func (h *Handler) RecentActivity(c *gin.Context) {
	activity, err := h.Dashboard.RecentActivity(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"activity": activity})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Dashboard.Users(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"users": users, "total": len(users)})
}
