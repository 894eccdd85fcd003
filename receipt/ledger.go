package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var acceptedTypes = []string{"image/png", "image/jpeg", "image/webp"}

type Store interface {
	AddReceipt(ctx context.Context, r tax.Receipt) error
	FindAllReceipts(ctx context.Context) ([]tax.Receipt, error)
}

// Position is the VAT remittance picture for one output VAT figure.
type Position struct {
	OutputVat     float64
	TotalInputVat float64
	Net           float64
	Receipts      int
}

func (p Position) Refund() bool {
	return p.Net < 0
}

type Ledger struct {
	extractor Extractor
	store     Store
	now       func() time.Time
	log       zerolog.Logger
}

func NewLedger(extractor Extractor, store Store) *Ledger {
	return &Ledger{
		extractor: extractor,
		store:     store,
		now:       time.Now,
		log:       logger.WithComponent("vat-ledger"),
	}
}

// Upload extracts the VAT from an image and records it. The content type is
// sniffed from the bytes; the client-supplied one is not trusted.
func (l *Ledger) Upload(ctx context.Context, fileName string, image []byte) (tax.Receipt, error) {
	const op = "Upload"

	if len(image) == 0 {
		return tax.Receipt{}, fmt.Errorf("%s: %w", op, ErrEmptyUpload)
	}

	mtype := mimetype.Detect(image)
	if !mimetype.EqualsAny(mtype.String(), acceptedTypes...) {
		return tax.Receipt{}, fmt.Errorf("%s: %s: %w", op, mtype.String(), ErrUnsupportedFormat)
	}

	vat, err := l.extractor.ExtractVAT(ctx, image, mtype.String())
	if err != nil {
		return tax.Receipt{}, err
	}

	now := l.now().UTC()

	r := tax.Receipt{
		ID:        uuid.NewString(),
		FileName:  fileName,
		VatAmount: vat,
		Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	if err := l.store.AddReceipt(ctx, r); err != nil {
		return tax.Receipt{}, fmt.Errorf("%s: store receipt: %w", op, err)
	}

	l.log.Info().
		Str("receipt_id", r.ID).
		Str("file_name", fileName).
		Float64("vat_amount", vat).
		Msg("receipt added to ledger")

	return r, nil
}

func (l *Ledger) Receipts(ctx context.Context) ([]tax.Receipt, error) {
	return l.store.FindAllReceipts(ctx)
}

// Position recomputes the net VAT from the whole ledger.
func (l *Ledger) Position(ctx context.Context, outputVat float64) (Position, error) {
	receipts, err := l.store.FindAllReceipts(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("Position: %w", err)
	}

	return Position{
		OutputVat:     outputVat,
		TotalInputVat: tax.TotalInputVat(receipts),
		Net:           tax.NetVat(outputVat, receipts),
		Receipts:      len(receipts),
	}, nil
}
