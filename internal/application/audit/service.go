// Package audit detects inventory items whose order and invoice links disagree.
package audit

import (
	"context"
	"time"

	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLimit bounds how many offenders one run reports
const DefaultLimit = 500

// Offender is an item linked to an order and to an invoice that order does not own
type Offender struct {
	ItemID            uuid.UUID  `json:"item_id"`
	SerialNumber      string     `json:"serial_number"`
	PurchaseOrderID   uuid.UUID  `json:"purchase_order_id"`
	PurchaseOrderCode string     `json:"purchase_order_code"`
	InvoiceID         uuid.UUID  `json:"invoice_id"`
	InvoiceCode       string     `json:"invoice_code"`
	InvoiceOrderID    *uuid.UUID `json:"invoice_order_id"`
}

// Report is the outcome of one audit run. Truncated is set when the
// offender list hit the limit.
type Report struct {
	CheckedAt time.Time  `json:"checked_at"`
	Offenders []Offender `json:"offenders"`
	Truncated bool       `json:"truncated"`
}

// Service runs the integrity audit
type Service struct {
	assignments assignment.Repository
	limit       int
	metrics     *telemetry.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates an audit service; limit <= 0 uses DefaultLimit
func NewService(assignments assignment.Repository, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assignments: assignments,
		limit:       limit,
		logger:      logger.Named("audit"),
		now:         time.Now,
	}
}

// SetMetrics sets the Prometheus collectors
func (s *Service) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

// Run scans for double-booked items once. It only reports; nothing is repaired.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	at := s.now()
	items, err := s.assignments.FindInconsistent(ctx, s.limit)
	if s.metrics != nil {
		s.metrics.ObserveAudit(len(items), err, at)
	}
	if err != nil {
		s.logger.Error("integrity audit failed", zap.Error(err))
		return nil, err
	}

	report := &Report{
		CheckedAt: at,
		Offenders: make([]Offender, 0, len(items)),
		Truncated: len(items) >= s.limit,
	}
	for _, item := range items {
		offender := toOffender(item)
		report.Offenders = append(report.Offenders, offender)
		s.logger.Warn("inconsistent inventory links",
			zap.String("item_id", offender.ItemID.String()),
			zap.String("serial_number", offender.SerialNumber),
			zap.String("purchase_order", offender.PurchaseOrderCode),
			zap.String("invoice", offender.InvoiceCode),
		)
	}

	if len(items) == 0 {
		s.logger.Debug("integrity audit clean")
	} else {
		s.logger.Warn("integrity audit found inconsistent items",
			zap.Int("count", len(items)),
			zap.Bool("truncated", report.Truncated))
	}
	return report, nil
}

func toOffender(o assignment.Ownership) Offender {
	off := Offender{
		ItemID:         o.ItemID,
		SerialNumber:   o.SerialNumber,
		InvoiceOrderID: o.InvoiceOrderID,
	}
	if o.PurchaseOrder != nil {
		off.PurchaseOrderID = o.PurchaseOrder.ID
		off.PurchaseOrderCode = o.PurchaseOrder.Code
	}
	if o.Invoice != nil {
		off.InvoiceID = o.Invoice.ID
		off.InvoiceCode = o.Invoice.Code
	}
	return off
}
