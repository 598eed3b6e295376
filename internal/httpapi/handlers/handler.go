package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/ai"
	"github.com/loggpt/components-room/internal/chat"
	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/config"
	"github.com/loggpt/components-room/internal/dashboard"
	"github.com/loggpt/components-room/internal/inventory"
	"github.com/loggpt/components-room/internal/lending"
	"github.com/loggpt/components-room/internal/store/redisstore"
)

type Handler struct {
	DB    *gorm.DB
	Cfg   config.Config
	Redis *redisstore.Store

	Inventory *inventory.Service
	Lending   *lending.Service
	Dashboard *dashboard.Service
	Chat      *chat.Service
}

func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store) *Handler {
	lendingRepo := lending.NewRepo(db)
	invSvc := inventory.NewService(inventory.NewRepo(db), lendingRepo)
	lendSvc := lending.NewService(db, lendingRepo, cfg.DefaultDueDays)

	// Gemini wins when both keys are set; no key at all leaves the provider
	// nil and the rule-based fallback answers everything.
	var provider ai.Provider
	switch {
	case cfg.GeminiAPIKey != "":
		provider = ai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	case cfg.OpenAIAPIKey != "":
		provider = ai.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	chatSvc := chat.NewService(db, chat.NewRepo(db), provider, cfg.ChatHistoryWindow)

	return &Handler{
		DB:        db,
		Cfg:       cfg,
		Redis:     rds,
		Inventory: invSvc,
		Lending:   lendSvc,
		Dashboard: dashboard.NewService(db),
		Chat:      chatSvc,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"status": "healthy"})
}

// failErr maps service sentinel errors onto the response envelope so every
// handler reports the same way.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		common.Fail(c, http.StatusNotFound, 40401, "resource not found")
	case errors.Is(err, inventory.ErrInvalidCategory),
		errors.Is(err, inventory.ErrInvalidStatus),
		errors.Is(err, inventory.ErrQuantityRange):
		common.Fail(c, http.StatusBadRequest, 10010, err.Error())
	case errors.Is(err, inventory.ErrHasActiveLoans):
		common.Fail(c, http.StatusConflict, 10011, err.Error())
	case errors.Is(err, lending.ErrInsufficientStock):
		common.Fail(c, http.StatusConflict, 10020, err.Error())
	case errors.Is(err, lending.ErrNotPending),
		errors.Is(err, lending.ErrNotReturnable):
		common.Fail(c, http.StatusConflict, 10021, err.Error())
	case errors.Is(err, lending.ErrAlreadyBorrowed):
		common.Fail(c, http.StatusConflict, 10022, err.Error())
	case errors.Is(err, chat.ErrConversationNotFound):
		common.Fail(c, http.StatusNotFound, 40402, "conversation not found")
	default:
		common.Fail(c, http.StatusInternalServerError, 50000, "internal server error")
	}
}
