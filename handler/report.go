package handler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/AnnaCarter465/taxpadi/report"
	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	csvFileName  = "taxpadi_filing_report.csv"
	xlsxFileName = "taxpadi_filing_report.xlsx"
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type FilingRequest struct {
	TotalSales        *Amount `json:"totalSales" validate:"required"`
	TotalExpenses     *Amount `json:"totalExpenses" validate:"required"`
	TotalVatCollected *Amount `json:"totalVatCollected"`
	TotalPayeRemitted *Amount `json:"totalPayeRemitted"`
}

type ReportRow struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

type FilingResponse struct {
	Status            tax.CompanyStatus `json:"status"`
	TotalSales        float64           `json:"totalSales"`
	TotalExpenses     float64           `json:"totalExpenses"`
	AssessableProfit  float64           `json:"assessableProfit"`
	CITPayable        float64           `json:"citPayable"`
	DevelopmentLevy   float64           `json:"developmentLevy"`
	TotalVatCollected float64           `json:"totalVatCollected"`
	TotalInputVat     float64           `json:"totalInputVat"`
	NetVat            float64           `json:"netVat"`
	TotalPayeRemitted float64           `json:"totalPayeRemitted"`
	Rows              []ReportRow       `json:"rows"`
}

type DeadlineResponse struct {
	Filing string `json:"filing"`
	Due    string `json:"due"`
}

type ReportLedger interface {
	Receipts(ctx context.Context) ([]tax.Receipt, error)
}

type ReportHandler struct {
	vl     *validator.Validate
	db     CompanyDB
	ledger ReportLedger
	now    func() time.Time
	log    zerolog.Logger
}

func NewReportHandler(vl *validator.Validate, db CompanyDB, ledger ReportLedger) *ReportHandler {
	return &ReportHandler{vl, db, ledger, time.Now, logger.WithComponent("report-handler")}
}

func (h *ReportHandler) Filing(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}

	if format != "json" && format != "csv" && format != "xlsx" {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unsupported format, use json, csv or xlsx",
		})
	}

	var req FilingRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := h.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	ctx := c.Request().Context()

	status, err := h.db.GetCompanyStatus(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read company status")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	receipts, err := h.ledger.Receipts(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list receipts")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	summary := report.Build(report.Input{
		TotalSales:        req.TotalSales.value(),
		TotalExpenses:     req.TotalExpenses.value(),
		TotalVatCollected: req.TotalVatCollected.value(),
		TotalPayeRemitted: req.TotalPayeRemitted.value(),
	}, status, receipts)

	var buf bytes.Buffer

	switch format {
	case "csv":
		if err := report.WriteCSV(&buf, summary); err != nil {
			h.log.Error().Err(err).Msg("failed to write csv report")
			return c.JSON(http.StatusInternalServerError, ResponseMsg{
				Message: "Internal server error",
			})
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+csvFileName+`"`)

		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := report.WriteXLSX(&buf, summary); err != nil {
			h.log.Error().Err(err).Msg("failed to write xlsx report")
			return c.JSON(http.StatusInternalServerError, ResponseMsg{
				Message: "Internal server error",
			})
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+xlsxFileName+`"`)

		return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
	}

	resp := &FilingResponse{
		Status:            summary.Status,
		TotalSales:        summary.TotalSales,
		TotalExpenses:     summary.TotalExpenses,
		AssessableProfit:  summary.AssessableProfit,
		CITPayable:        summary.CITPayable,
		DevelopmentLevy:   summary.DevelopmentLevy,
		TotalVatCollected: summary.TotalVatCollected,
		TotalInputVat:     summary.TotalInputVat,
		NetVat:            summary.NetVat,
		TotalPayeRemitted: summary.TotalPayeRemitted,
	}

	for _, r := range summary.Rows() {
		resp.Rows = append(resp.Rows, ReportRow{Metric: r.Metric, Value: r.Value})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) Deadlines(c echo.Context) error {
	var resp []DeadlineResponse

	for _, d := range report.NextDeadlines(h.now()) {
		resp = append(resp, DeadlineResponse{
			Filing: d.Filing,
			Due:    d.Due.Format(dateLayout),
		})
	}

	return c.JSON(http.StatusOK, resp)
}
