package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/AnnaCarter465/taxpadi/receipt"
	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type ReceiptResponse struct {
	ID        string  `json:"id"`
	FileName  string  `json:"fileName"`
	VatAmount float64 `json:"vatAmount"`
	Date      string  `json:"date"`
}

type ReceiptsResponse struct {
	Receipts []ReceiptResponse `json:"receipts"`
}

type VatResponse struct {
	OutputVat     float64 `json:"outputVat"`
	TotalInputVat float64 `json:"totalInputVat"`
	NetVat        float64 `json:"netVat"`
	Refund        bool    `json:"refund"`
	Receipts      int     `json:"receipts"`
}

type Ledger interface {
	Upload(ctx context.Context, fileName string, image []byte) (tax.Receipt, error)
	Receipts(ctx context.Context) ([]tax.Receipt, error)
	Position(ctx context.Context, outputVat float64) (receipt.Position, error)
}

type ReceiptHandler struct {
	ledger   Ledger
	maxBytes int64
	log      zerolog.Logger
}

func NewReceiptHandler(ledger Ledger, maxBytes int64) *ReceiptHandler {
	return &ReceiptHandler{ledger, maxBytes, logger.WithComponent("receipt-handler")}
}

func toReceiptResponse(r tax.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:        r.ID,
		FileName:  r.FileName,
		VatAmount: r.VatAmount,
		Date:      r.Date.Format(dateLayout),
	}
}

func (h *ReceiptHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("receipt")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Missing receipt file",
		})
	}

	if fh.Size > h.maxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ResponseMsg{
			Message: "Receipt file is too large",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unreadable receipt file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unreadable receipt file",
		})
	}

	if int64(len(data)) > h.maxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ResponseMsg{
			Message: "Receipt file is too large",
		})
	}

	r, err := h.ledger.Upload(c.Request().Context(), fh.Filename, data)

	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, toReceiptResponse(r))
	case errors.Is(err, receipt.ErrUnsupportedFormat):
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unsupported receipt format, upload a PNG, JPEG or WEBP image",
		})
	case errors.Is(err, receipt.ErrEmptyUpload):
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Empty receipt file",
		})
	case errors.Is(err, receipt.ErrExtractionFailed):
		return c.JSON(http.StatusUnprocessableEntity, ResponseMsg{
			Message: "Failed to extract VAT from receipt. Please try again.",
		})
	default:
		h.log.Error().Err(err).Str("file_name", fh.Filename).Msg("receipt upload failed")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}
}

func (h *ReceiptHandler) List(c echo.Context) error {
	receipts, err := h.ledger.Receipts(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list receipts")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	resp := ReceiptsResponse{Receipts: []ReceiptResponse{}}

	for _, r := range receipts {
		resp.Receipts = append(resp.Receipts, toReceiptResponse(r))
	}

	return c.JSON(http.StatusOK, &resp)
}

// NetVat reads outputVat from the query string as typed text.
func (h *ReceiptHandler) NetVat(c echo.Context) error {
	output := tax.ParseAmount(c.QueryParam("outputVat"))

	pos, err := h.ledger.Position(c.Request().Context(), output)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to compute VAT position")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, &VatResponse{
		OutputVat:     pos.OutputVat,
		TotalInputVat: pos.TotalInputVat,
		NetVat:        pos.Net,
		Refund:        pos.Refund(),
		Receipts:      pos.Receipts,
	})
}
