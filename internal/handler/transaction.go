package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dkzinn98/gestor-financeiro/internal/ledger"
	"github.com/dkzinn98/gestor-financeiro/internal/middleware"
	"github.com/dkzinn98/gestor-financeiro/internal/models"
	"github.com/dkzinn98/gestor-financeiro/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler adapts HTTP requests onto the ledger store. All
// business rules live in internal/ledger; this layer only normalizes,
// delegates and shapes responses.
type TransactionHandler struct {
	Store       *ledger.Store
	RecentLimit int
}

func NewTransactionHandler(store *ledger.Store, recentLimit int) *TransactionHandler {
	if recentLimit <= 0 {
		recentLimit = ledger.DefaultRecentLimit
	}
	return &TransactionHandler{Store: store, RecentLimit: recentLimit}
}

// transactionResp is the canonical wire shape. Input accepts both the
// English and the legacy Portuguese vocabulary; output emits only this.
type transactionResp struct {
	ID              uint      `json:"id"`
	Description     string    `json:"description"`
	Amount          float64   `json:"amount"`
	Kind            string    `json:"kind"`
	CategoryID      uint      `json:"category_id"`
	TransactionDate string    `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:              t.ID,
		Description:     t.Description,
		Amount:          ledger.CentsToDecimal(t.AmountCents),
		Kind:            t.Kind,
		CategoryID:      t.CategoryID,
		TransactionDate: t.Date.Format(ledger.DateLayout),
		CreatedAt:       t.CreatedAt,
	}
}

func (h *TransactionHandler) Create(c *gin.Context) {
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

	in, err := ledger.Normalize(raw, time.Now())
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	rec, err := h.Store.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Created(c, util.Response{
		"transaction": toTransactionResp(rec),
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := h.Store.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(rec),
	})
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	var filter ledger.ListFilter
	for _, param := range []string{"tipo", "type", "kind"} {
		if v := c.Query(param); v != "" {
			filter.Kind = ledger.NormalizeKind(v)
			break
		}
	}

	if startStr := c.Query("start"); startStr != "" {
		start, err := time.ParseInLocation(ledger.DateLayout, startStr, time.UTC)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return
		}
		filter.From = &start
	}
	if endStr := c.Query("end"); endStr != "" {
		end, err := time.ParseInLocation(ledger.DateLayout, endStr, time.UTC)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return
		}
		filter.To = &end
	}

	recs, err := h.Store.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	items := make([]transactionResp, 0, len(recs))
	for i := range recs {
		items = append(items, toTransactionResp(&recs[i]))
	}

	util.Success(c, util.Response{
		"transactions": items,
	})
}

func (h *TransactionHandler) Update(c *gin.Context) {
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

	in, err := ledger.NormalizePartial(raw)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	rec, err := h.Store.Update(c.Request.Context(), user.ID, id, in)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(rec),
	})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Store.Delete(c.Request.Context(), user.ID, id); err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transaction deleted",
	})
}

// Dashboard returns the financial summary over all of the user's
// transactions. The aggregation engine is the single source of truth;
// clients must not re-derive totals.
func (h *TransactionHandler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	summary, err := h.Store.Summary(c.Request.Context(), user.ID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"totalIncome":  summary.TotalIncome,
		"totalExpense": summary.TotalExpense,
		"balance":      summary.Balance,
	})
}

func (h *TransactionHandler) Recent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	limit := h.RecentLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	recs, err := h.Store.Recent(c.Request.Context(), user.ID, limit)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	items := make([]transactionResp, 0, len(recs))
	for i := range recs {
		items = append(items, toTransactionResp(&recs[i]))
	}

	util.Success(c, util.Response{
		"transactions": items,
	})
}

// pathID parses the :id route parameter, writing the error response itself.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}
