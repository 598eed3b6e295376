package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/httpapi/middleware"
	"github.com/loggpt/components-room/internal/lending"
)

// ListTransactions shows students their own rows only; admins see everything
// and may filter by user_id.
func (h *Handler) ListTransactions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "not authenticated")
		return
	}

	page, pageSize := parsePaging(c)
	f := lending.Filter{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := c.Query("component_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.ComponentID = id
		}
	}
	if v := c.Query("overdue_only"); v == "true" || v == "1" {
		f.OverdueOnly = true
	}

	if user.IsAdmin() {
		if v := c.Query("user_id"); v != "" {
			if id, err := strconv.ParseUint(v, 10, 64); err == nil {
				f.UserID = &id
			}
		}
	} else {
		f.UserID = &user.ID
	}

	items, total, err := h.Lending.List(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"transactions": items,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

func (h *Handler) GetTransaction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "not authenticated")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.Lending.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	if !user.IsAdmin() && (tx.UserID == nil || *tx.UserID != user.ID) {
		common.Fail(c, http.StatusNotFound, 40401, "resource not found")
		return
	}
	common.OK(c, tx)
}

type transactionCreateReq struct {
	ComponentID        uint64     `json:"component_id"`
	Quantity           int        `json:"quantity"`
	Purpose            string     `json:"purpose"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "not authenticated")
		return
	}

	var req transactionCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.ComponentID == 0 || req.Quantity < 1 {
		common.Fail(c, http.StatusBadRequest, 10002, "component_id and quantity >= 1 required")
		return
	}

	tx, err := h.Lending.Create(c.Request.Context(), user, lending.CreateInput{
		ComponentID:        req.ComponentID,
		Quantity:           req.Quantity,
		Purpose:            req.Purpose,
		ExpectedReturnDate: req.ExpectedReturnDate,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	common.Created(c, tx)
}

func (h *Handler) ApproveTransaction(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	dueDays := h.Cfg.DefaultDueDays
	if v := c.Query("due_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 90 {
			common.Fail(c, http.StatusBadRequest, 10002, "due_days must be between 1 and 90")
			return
		}
		dueDays = n
	}

	tx, err := h.Lending.Approve(c.Request.Context(), id, admin.ID, dueDays)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, tx)
}

type rejectReq struct {
	Reason string `json:"reason"`
}

func (h *Handler) RejectTransaction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	tx, err := h.Lending.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, tx)
}

type returnReq struct {
	Condition string `json:"condition"`
}

func (h *Handler) ReturnTransaction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req returnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Condition == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "condition required")
		return
	}

	tx, err := h.Lending.Return(c.Request.Context(), id, req.Condition)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, tx)
}

func (h *Handler) ListOverdue(c *gin.Context) {
	page, pageSize := parsePaging(c)
	items, total, err := h.Lending.Overdue(c.Request.Context(), page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"transactions": items,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}
