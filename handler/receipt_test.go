package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AnnaCarter465/taxpadi/receipt"
	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type LedgerMock struct {
	mock.Mock
}

func (o *LedgerMock) Upload(ctx context.Context, fileName string, image []byte) (tax.Receipt, error) {
	args := o.Called(ctx, fileName, image)
	return args.Get(0).(tax.Receipt), args.Error(1)
}

func (o *LedgerMock) Receipts(ctx context.Context) ([]tax.Receipt, error) {
	args := o.Called(ctx)
	return args.Get(0).([]tax.Receipt), args.Error(1)
}

func (o *LedgerMock) Position(ctx context.Context, outputVat float64) (receipt.Position, error) {
	args := o.Called(ctx, outputVat)
	return args.Get(0).(receipt.Position), args.Error(1)
}

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	receiptAt = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func multipartRequest(t *testing.T, field, fileName string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if field != "" {
		part, err := w.CreateFormFile(field, fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/receipts", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	return req
}

func TestReceiptUpload(t *testing.T) {
	type TC struct {
		name     string
		field    string
		maxBytes int64
		mockSet  *MockSetting
		wantCode int
		want     *ReceiptResponse
		errresp  *ResponseMsg
	}

	tcs := []TC{
		{
			name:     "stored",
			field:    "receipt",
			maxBytes: 1 << 20,
			mockSet: &MockSetting{
				Args: []interface{}{mock.Anything, "fuel.png", pngBytes},
				Returns: []interface{}{
					tax.Receipt{ID: "r-1", FileName: "fuel.png", VatAmount: 315_100, Date: receiptAt},
					nil,
				},
			},
			wantCode: http.StatusCreated,
			want:     &ReceiptResponse{ID: "r-1", FileName: "fuel.png", VatAmount: 315_100, Date: "2026-10-19"},
		},
		{
			name:     "missing file field",
			field:    "",
			maxBytes: 1 << 20,
			wantCode: http.StatusBadRequest,
			errresp:  &ResponseMsg{Message: "Missing receipt file"},
		},
		{
			name:     "too large",
			field:    "receipt",
			maxBytes: 4,
			wantCode: http.StatusRequestEntityTooLarge,
			errresp:  &ResponseMsg{Message: "Receipt file is too large"},
		},
		{
			name:     "not an image",
			field:    "receipt",
			maxBytes: 1 << 20,
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "fuel.png", pngBytes},
				Returns: []interface{}{tax.Receipt{}, receipt.ErrUnsupportedFormat},
			},
			wantCode: http.StatusBadRequest,
			errresp:  &ResponseMsg{Message: "Unsupported receipt format, upload a PNG, JPEG or WEBP image"},
		},
		{
			name:     "extraction failed",
			field:    "receipt",
			maxBytes: 1 << 20,
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "fuel.png", pngBytes},
				Returns: []interface{}{tax.Receipt{}, receipt.ErrExtractionFailed},
			},
			wantCode: http.StatusUnprocessableEntity,
			errresp:  &ResponseMsg{Message: "Failed to extract VAT from receipt. Please try again."},
		},
		{
			name:     "store failure",
			field:    "receipt",
			maxBytes: 1 << 20,
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "fuel.png", pngBytes},
				Returns: []interface{}{tax.Receipt{}, errors.New("an error")},
			},
			wantCode: http.StatusInternalServerError,
			errresp:  &ResponseMsg{Message: "Internal server error"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ledger := new(LedgerMock)
			tc.mockSet.apply(&ledger.Mock, "Upload")

			h := NewReceiptHandler(ledger, tc.maxBytes)

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(multipartRequest(t, tc.field, "fuel.png", pngBytes), rec)

			assert.NoError(t, h.Upload(c))
			assert.Equal(t, tc.wantCode, rec.Code)

			if tc.errresp != nil {
				var errresp ResponseMsg
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errresp))
				assert.Equal(t, *tc.errresp, errresp)
				return
			}

			var got ReceiptResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, *tc.want, got)
			ledger.AssertExpectations(t)
		})
	}
}

func TestReceiptList(t *testing.T) {
	ledger := new(LedgerMock)
	ledger.On("Receipts", mock.Anything).Return([]tax.Receipt{
		{ID: "r-2", FileName: "b.png", VatAmount: 500, Date: receiptAt},
		{ID: "r-1", FileName: "a.png", VatAmount: 250.5, Date: receiptAt.AddDate(0, 0, -1)},
	}, nil)

	h := NewReceiptHandler(ledger, 1<<20)
	c, rec := jsonContext(http.MethodGet, "/receipts", nil)

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"receipts":[
		{"id":"r-2","fileName":"b.png","vatAmount":500,"date":"2026-10-19"},
		{"id":"r-1","fileName":"a.png","vatAmount":250.5,"date":"2026-10-18"}
	]}`, rec.Body.String())
}

func TestReceiptListEmpty(t *testing.T) {
	ledger := new(LedgerMock)
	ledger.On("Receipts", mock.Anything).Return([]tax.Receipt(nil), nil)

	h := NewReceiptHandler(ledger, 1<<20)
	c, rec := jsonContext(http.MethodGet, "/receipts", nil)

	assert.NoError(t, h.List(c))
	assert.JSONEq(t, `{"receipts":[]}`, rec.Body.String())
}

func TestNetVat(t *testing.T) {
	type TC struct {
		name   string
		query  string
		output float64
		pos    receipt.Position
		want   VatResponse
	}

	tcs := []TC{
		{
			name:   "payable",
			query:  "850,250",
			output: 850_250,
			pos:    receipt.Position{OutputVat: 850_250, TotalInputVat: 315_100, Net: 535_150, Receipts: 1},
			want:   VatResponse{OutputVat: 850_250, TotalInputVat: 315_100, NetVat: 535_150, Receipts: 1},
		},
		{
			name:   "refund",
			query:  "",
			output: 0,
			pos:    receipt.Position{TotalInputVat: 1_000, Net: -1_000, Receipts: 2},
			want:   VatResponse{TotalInputVat: 1_000, NetVat: -1_000, Refund: true, Receipts: 2},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ledger := new(LedgerMock)
			ledger.On("Position", mock.Anything, tc.output).Return(tc.pos, nil)

			h := NewReceiptHandler(ledger, 1<<20)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/vat/net", nil)
			q := req.URL.Query()
			q.Set("outputVat", tc.query)
			req.URL.RawQuery = q.Encode()
			rec := httptest.NewRecorder()

			assert.NoError(t, h.NetVat(e.NewContext(req, rec)))
			require.Equal(t, http.StatusOK, rec.Code)

			var got VatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNetVatStoreFailure(t *testing.T) {
	ledger := new(LedgerMock)
	ledger.On("Position", mock.Anything, 0.0).Return(receipt.Position{}, errors.New("an error"))

	h := NewReceiptHandler(ledger, 1<<20)
	c, rec := jsonContext(http.MethodGet, "/vat/net", nil)

	assert.NoError(t, h.NetVat(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
