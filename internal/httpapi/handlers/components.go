package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/httpapi/middleware"
	"github.com/loggpt/components-room/internal/inventory"
)

func parsePaging(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) ListComponents(c *gin.Context) {
	page, pageSize := parsePaging(c)
	items, total, err := h.Inventory.List(c.Request.Context(), inventory.ListFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"components": items,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

func (h *Handler) GetComponent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	comp, err := h.Inventory.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, comp)
}

type componentCreateReq struct {
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	TotalQuantity     int            `json:"total_quantity"`
	AvailableQuantity int            `json:"available_quantity"`
	Location          string         `json:"location"`
	Specifications    map[string]any `json:"specifications"`
	ImageURL          string         `json:"image_url"`
	Tags              []string       `json:"tags"`
}

func (h *Handler) CreateComponent(c *gin.Context) {
	var req componentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Name == "" || req.Category == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "name and category required")
		return
	}

	user, _ := middleware.CurrentUser(c)
	comp, err := h.Inventory.Create(c.Request.Context(), inventory.CreateInput{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		TotalQuantity:     req.TotalQuantity,
		AvailableQuantity: req.AvailableQuantity,
		Location:          req.Location,
		Specifications:    req.Specifications,
		ImageURL:          req.ImageURL,
		Tags:              req.Tags,
	}, user.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	common.Created(c, comp)
}

type componentUpdateReq struct {
	Name              *string        `json:"name"`
	Description       *string        `json:"description"`
	Category          *string        `json:"category"`
	TotalQuantity     *int           `json:"total_quantity"`
	AvailableQuantity *int           `json:"available_quantity"`
	Status            *string        `json:"status"`
	Location          *string        `json:"location"`
	Specifications    map[string]any `json:"specifications"`
	ImageURL          *string        `json:"image_url"`
	Tags              []string       `json:"tags"`
}

func (h *Handler) UpdateComponent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req componentUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	comp, err := h.Inventory.Update(c.Request.Context(), id, inventory.UpdateInput{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		TotalQuantity:     req.TotalQuantity,
		AvailableQuantity: req.AvailableQuantity,
		Status:            req.Status,
		Location:          req.Location,
		Specifications:    req.Specifications,
		ImageURL:          req.ImageURL,
		Tags:              req.Tags,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, comp)
}

func (h *Handler) DeleteComponent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Inventory.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{"message": "component deleted"})
}

func (h *Handler) ListCategories(c *gin.Context) {
	counts, err := h.Inventory.CategoryCounts(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"categories": inventory.Categories,
		"counts":     counts,
	})
}
