package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxLinkAttempts bounds how often Link re-partitions after losing rows to
// concurrent writers
const maxLinkAttempts = 3

// GormAssignmentRepository implements assignment.Repository using GORM.
// Links are written with conditional updates, so the database row is the
// only lock.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// ownershipRow is the flat projection of an item with its current links
type ownershipRow struct {
	ItemID            uuid.UUID
	SerialNumber      string
	PurchaseOrderID   *uuid.UUID
	PurchaseOrderCode *string
	InvoiceID         *uuid.UUID
	InvoiceCode       *string
	InvoiceOrderID    *uuid.UUID
}

func (row ownershipRow) toDomain() assignment.Ownership {
	o := assignment.Ownership{
		ItemID:         row.ItemID,
		SerialNumber:   row.SerialNumber,
		InvoiceOrderID: row.InvoiceOrderID,
	}
	if row.PurchaseOrderID != nil {
		o.PurchaseOrder = &assignment.Link{ID: *row.PurchaseOrderID, Code: deref(row.PurchaseOrderCode)}
	}
	if row.InvoiceID != nil {
		o.Invoice = &assignment.Link{ID: *row.InvoiceID, Code: deref(row.InvoiceCode)}
	}
	return o
}

func ownershipQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("inventory_items AS i").
		Select("i.id AS item_id, i.serial_number, " +
			"i.purchase_order_id, po.code AS purchase_order_code, " +
			"i.invoice_id, inv.code AS invoice_code, inv.purchase_order_id AS invoice_order_id").
		Joins("LEFT JOIN purchase_orders po ON po.id = i.purchase_order_id").
		Joins("LEFT JOIN invoices inv ON inv.id = i.invoice_id")
}

func loadOwnership(tx *gorm.DB, ids []uuid.UUID) ([]assignment.Ownership, error) {
	if len(ids) == 0 {
		return []assignment.Ownership{}, nil
	}
	var rows []ownershipRow
	if err := ownershipQuery(tx).Where("i.id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load ownership: %w", err)
	}
	result := make([]assignment.Ownership, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

// LoadOwnership returns ownership snapshots for the given item IDs
func (r *GormAssignmentRepository) LoadOwnership(ctx context.Context, itemIDs []uuid.UUID) ([]assignment.Ownership, error) {
	return loadOwnership(r.db.WithContext(ctx), itemIDs)
}

// Link writes the target into every available item of result. Each attempt is
// one conditional UPDATE; when fewer rows change than expected the pending
// items are re-read and re-partitioned inside the same transaction. Items now
// on the target count as linked, items taken by someone else become conflicts.
func (r *GormAssignmentRepository) Link(ctx context.Context, result assignment.Result) (assignment.Result, error) {
	reconciled := result
	reconciled.Available = nil
	if len(result.Available) == 0 {
		return reconciled, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending := result.Available
		for attempt := 0; attempt < maxLinkAttempts && len(pending) > 0; attempt++ {
			ids := ownershipIDs(pending)
			affected, err := conditionalLink(tx, result.Target, ids)
			if err != nil {
				return err
			}
			if affected == int64(len(ids)) {
				reconciled.Available = append(reconciled.Available, pending...)
				return nil
			}

			current, err := loadOwnership(tx, ids)
			if err != nil {
				return err
			}
			again := assignment.Partition(ids, current, result.Target)
			reconciled.Available = append(reconciled.Available, again.AlreadyAssigned...)
			reconciled.Unavailable = append(reconciled.Unavailable, again.Unavailable...)
			reconciled.Missing = append(reconciled.Missing, again.Missing...)
			pending = again.Available
		}
		if len(pending) > 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return assignment.Result{}, err
	}
	return reconciled, nil
}

// conditionalLink sets the target's slot on the given items while the slot is
// empty and the other slot does not contradict the target
func conditionalLink(tx *gorm.DB, target assignment.Target, ids []uuid.UUID) (int64, error) {
	column, err := slotColumn(target.Type)
	if err != nil {
		return 0, err
	}

	query := tx.Model(&models.InventoryItemModel{}).
		Where("id IN ?", ids).
		Where(column + " IS NULL")

	switch target.Type {
	case assignment.TargetPurchaseOrder:
		ownInvoices := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.InvoiceModel{}).
			Select("id").
			Where("purchase_order_id = ?", target.ID)
		query = query.Where("(invoice_id IS NULL OR invoice_id IN (?))", ownInvoices)
	case assignment.TargetInvoice:
		if target.PurchaseOrderID != nil {
			query = query.Where("(purchase_order_id IS NULL OR purchase_order_id = ?)", *target.PurchaseOrderID)
		} else {
			query = query.Where("purchase_order_id IS NULL")
		}
	}

	res := query.Updates(map[string]any{
		column:       target.ID,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return 0, fmt.Errorf("link items to %s: %w", target.Type, res.Error)
	}
	return res.RowsAffected, nil
}

// Unlink clears one slot of an item. A non-nil owner restricts the update to
// items currently linked to it.
func (r *GormAssignmentRepository) Unlink(ctx context.Context, itemID uuid.UUID, slot assignment.TargetType, owner *uuid.UUID) (bool, error) {
	column, err := slotColumn(slot)
	if err != nil {
		return false, err
	}

	query := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).Where("id = ?", itemID)
	if owner != nil {
		query = query.Where(column+" = ?", *owner)
	} else {
		query = query.Where(column + " IS NOT NULL")
	}

	res := query.Updates(map[string]any{
		column:       nil,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return false, fmt.Errorf("unlink %s: %w", slot, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindInconsistent returns items linked to an order and to an invoice that
// the order does not own
func (r *GormAssignmentRepository) FindInconsistent(ctx context.Context, limit int) ([]assignment.Ownership, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []ownershipRow
	err := ownershipQuery(r.db.WithContext(ctx)).
		Where("i.purchase_order_id IS NOT NULL AND i.invoice_id IS NOT NULL").
		Where("(inv.purchase_order_id IS NULL OR inv.purchase_order_id <> i.purchase_order_id)").
		Order("i.serial_number").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find inconsistent items: %w", err)
	}
	result := make([]assignment.Ownership, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

func slotColumn(slot assignment.TargetType) (string, error) {
	switch slot {
	case assignment.TargetPurchaseOrder:
		return "purchase_order_id", nil
	case assignment.TargetInvoice:
		return "invoice_id", nil
	default:
		return "", shared.InvalidInput(fmt.Sprintf("unknown assignment slot %q", slot))
	}
}

func ownershipIDs(items []assignment.Ownership) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}
	return ids
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
