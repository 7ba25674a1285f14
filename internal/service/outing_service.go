// Package service implements the Connect services and the operations they
// share with the REST API.
package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/ksdfg/bill-splitter/internal/calculator"
	"github.com/ksdfg/bill-splitter/internal/metrics"
	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/validation"
	"github.com/ksdfg/bill-splitter/pkg/rpc"
)

var _ rpc.OutingServiceHandler = (*OutingService)(nil)

// OutingService settles outings.
type OutingService struct {
	metrics *metrics.Metrics
}

// NewOutingService creates a new OutingService. m may be nil.
func NewOutingService(m *metrics.Metrics) *OutingService {
	return &OutingService{metrics: m}
}

// ComputeBalance validates the outing and returns who is owed and who owes.
// The outing is canonicalized in place.
func (s *OutingService) ComputeBalance(outing *models.Outing) (models.OutingPaymentBalance, error) {
	if err := validation.Outing(outing); err != nil {
		return models.OutingPaymentBalance{}, err
	}

	balance := calculator.CalculateBalance(*outing)
	slog.Debug("Balance computed",
		"bills", len(outing.Bills),
		"creditors", len(balance.Creditors),
		"debtors", len(balance.Debtors),
		"total_credit", balance.TotalCredit(),
		"total_debt", balance.TotalDebt(),
	)
	return balance, nil
}

// Settle validates the outing and computes the payments that settle it.
func (s *OutingService) Settle(outing *models.Outing) (models.OutingSplit, error) {
	balance, err := s.ComputeBalance(outing)
	if err != nil {
		return models.OutingSplit{}, err
	}

	split := calculator.CalculateOutingSplitWithMinimalTransactions(balance)
	s.metrics.ObserveSplit(split.PaymentCount())
	slog.Debug("Outing settled",
		"payment_plans", len(split.PaymentPlans),
		"payments", split.PaymentCount(),
	)
	return split, nil
}

// Split handles billsplitter.v1.OutingService.Split.
func (s *OutingService) Split(ctx context.Context, req *connect.Request[models.Outing]) (*connect.Response[models.OutingSplit], error) {
	split, err := s.Settle(req.Msg)
	if err != nil {
		slog.Warn("Split failed", "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&split), nil
}

// Balance handles billsplitter.v1.OutingService.Balance.
func (s *OutingService) Balance(ctx context.Context, req *connect.Request[models.Outing]) (*connect.Response[models.OutingPaymentBalance], error) {
	balance, err := s.ComputeBalance(req.Msg)
	if err != nil {
		slog.Warn("Balance failed", "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&balance), nil
}
