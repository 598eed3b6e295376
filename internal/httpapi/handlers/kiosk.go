package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/lending"
)

// Kiosk endpoints are login-free: students at the walk-up terminal identify
// themselves by roll number only.

func (h *Handler) KioskListComponents(c *gin.Context) {
	items, total, err := h.Inventory.List(c.Request.Context(), inventory.ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		InStock:  true,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"components": items, "total": total})
}

func (h *Handler) KioskCategories(c *gin.Context) {
	counts, err := h.Inventory.CategoryCounts(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"categories": counts})
}

type kioskBorrowReq struct {
	RollNumber  string `json:"roll_number"`
	Name        string `json:"name"`
	ComponentID uint64 `json:"component_id"`
	Quantity    int    `json:"quantity"`
	Purpose     string `json:"purpose"`
}

func (h *Handler) KioskBorrow(c *gin.Context) {
	var req kioskBorrowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if strings.TrimSpace(req.RollNumber) == "" || strings.TrimSpace(req.Name) == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "roll_number and name required")
		return
	}
	if req.ComponentID == 0 || req.Quantity < 1 {
		common.Fail(c, http.StatusBadRequest, 10002, "component_id and quantity >= 1 required")
		return
	}

	tx, err := h.Lending.KioskBorrow(c.Request.Context(), lending.KioskBorrowInput{
		RollNumber:  req.RollNumber,
		Name:        req.Name,
		ComponentID: req.ComponentID,
		Quantity:    req.Quantity,
		Purpose:     req.Purpose,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	common.Created(c, gin.H{
		"message":     "component borrowed",
		"transaction": tx,
		"due_date":    tx.DueDate,
	})
}

func (h *Handler) KioskBorrowed(c *gin.Context) {
	roll := strings.TrimSpace(c.Param("roll_number"))
	if roll == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "roll_number required")
		return
	}

	name, items, err := h.Lending.BorrowedByRoll(c.Request.Context(), roll)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"roll_number": strings.ToUpper(roll),
		"name":        name,
		"items":       items,
		"total":       len(items),
	})
}

type kioskReturnReq struct {
	TransactionID uint64 `json:"transaction_id"`
	Condition     string `json:"condition"`
}

func (h *Handler) KioskReturn(c *gin.Context) {
	var req kioskReturnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.TransactionID == 0 {
		common.Fail(c, http.StatusBadRequest, 10002, "transaction_id required")
		return
	}

	tx, err := h.Lending.KioskReturn(c.Request.Context(), req.TransactionID, req.Condition)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"message": "component returned", "transaction": tx})
}

func (h *Handler) KioskSearchStudent(c *gin.Context) {
	roll := strings.TrimSpace(c.Query("roll_number"))
	if roll == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "roll_number required")
		return
	}

	name, found, err := h.Lending.SearchStudent(c.Request.Context(), roll)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"roll_number": strings.ToUpper(roll),
		"name":        name,
		"found":       found,
	})
}

func (h *Handler) KioskStats(c *gin.Context) {
	stats, err := h.Dashboard.KioskStats(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, stats)
}
