package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dkzinn98/gestor-financeiro/internal/ledger"
	"github.com/dkzinn98/gestor-financeiro/internal/middleware"
	"github.com/dkzinn98/gestor-financeiro/internal/models"
	"github.com/dkzinn98/gestor-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the acting user's transactions as CSV or XLSX.
type ExportHandler struct {
	Store    *ledger.Store
	Registry *ledger.Categories
}

func NewExportHandler(store *ledger.Store, registry *ledger.Categories) *ExportHandler {
	return &ExportHandler{Store: store, Registry: registry}
}

var exportHeader = []string{"Date", "Description", "Category", "Kind", "Amount"}

func (h *ExportHandler) rows(c *gin.Context, userID uint) ([][]string, bool) {
	recs, err := h.Store.List(c.Request.Context(), userID, ledger.ListFilter{})
	if err != nil {
		respondLedgerError(c, err)
		return nil, false
	}
	cats, err := h.Registry.List(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, err)
		return nil, false
	}

	names := make(map[uint]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}

	rows := make([][]string, 0, len(recs))
	for i := range recs {
		rows = append(rows, exportRow(&recs[i], names))
	}
	return rows, true
}

func exportRow(t *models.Transaction, categoryNames map[uint]string) []string {
	return []string{
		t.Date.Format(ledger.DateLayout),
		t.Description,
		categoryNames[t.CategoryID],
		t.Kind,
		strconv.FormatFloat(ledger.CentsToDecimal(t.AmountCents), 'f', 2, 64),
	}
}

// ExportCSV writes the user's transactions as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	rows, ok := h.rows(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeader)
	for _, row := range rows {
		_ = writer.Write(row)
	}
}

// ExportXLSX writes the user's transactions as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}

	rows, ok := h.rows(c, user.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for r, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
