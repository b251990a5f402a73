package handler

import (
	"net/http"
	"time"

	"github.com/dkzinn98/gestor-financeiro/internal/ledger"
	"github.com/dkzinn98/gestor-financeiro/internal/middleware"
	"github.com/dkzinn98/gestor-financeiro/internal/models"
	"github.com/dkzinn98/gestor-financeiro/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler adapts HTTP requests onto the category registry.
type CategoryHandler struct {
	Registry *ledger.Categories
}

func NewCategoryHandler(registry *ledger.Categories) *CategoryHandler {
	return &CategoryHandler{Registry: registry}
}

type categoryResp struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{
		ID:          cat.ID,
		Name:        cat.Name,
		Kind:        cat.Kind,
		Description: cat.Description,
		CreatedAt:   cat.CreatedAt,
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	cats, err := h.Registry.List(c.Request.Context(), user.ID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	items := make([]categoryResp, 0, len(cats))
	for i := range cats {
		items = append(items, toCategoryResp(&cats[i]))
	}

	util.Success(c, util.Response{
		"categories": items,
	})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	cat, err := h.Registry.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"category": toCategoryResp(cat),
	})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	cat, err := h.Registry.Create(c.Request.Context(), user.ID, ledger.NormalizeCategory(raw))
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Created(c, util.Response{
		"category": toCategoryResp(cat),
	})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	cat, err := h.Registry.Update(c.Request.Context(), user.ID, id, ledger.NormalizeCategory(raw))
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"category": toCategoryResp(cat),
	})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Registry.Delete(c.Request.Context(), user.ID, id); err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category deleted",
	})
}
