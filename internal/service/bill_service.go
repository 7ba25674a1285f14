package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/ocr"
	"github.com/ksdfg/bill-splitter/pkg/rpc"
)

var _ rpc.BillServiceHandler = (*BillService)(nil)

// BillService reads bills from receipt images.
type BillService struct {
	extractor ocr.Extractor
}

// NewBillService creates a new BillService backed by the given extractor.
func NewBillService(extractor ocr.Extractor) *BillService {
	return &BillService{extractor: extractor}
}

// Extract checks the media type and asks the OCR provider for the bill.
func (s *BillService) Extract(ctx context.Context, image []byte, mimeType string) (*models.OCRBill, error) {
	if err := ocr.CheckMediaType(mimeType); err != nil {
		return nil, err
	}
	bill, err := s.extractor.ExtractBill(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}
	slog.Debug("Bill ready for review",
		"items", len(bill.Items),
		"tax_rate", bill.TaxRate,
		"service_charge", bill.ServiceCharge,
	)
	return bill, nil
}

// ExtractBill handles billsplitter.v1.BillService.ExtractBill.
func (s *BillService) ExtractBill(ctx context.Context, req *connect.Request[rpc.ExtractBillRequest]) (*connect.Response[models.OCRBill], error) {
	if len(req.Msg.Image) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyImage)
	}
	bill, err := s.Extract(ctx, req.Msg.Image, req.Msg.MimeType)
	if err != nil {
		slog.Error("ExtractBill failed", "provider", s.extractor.Name(), "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(bill), nil
}
