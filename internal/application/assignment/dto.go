package assignment

import (
	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/google/uuid"
)

// MaxBatchSize bounds how many items one request may assign
const MaxBatchSize = 500

// AssignItemsRequest is the body of every assignment route
type AssignItemsRequest struct {
	InventoryIDs []string `json:"inventoryIds" binding:"required,min=1,max=500,dive,required"`
}

// PreviewRequest asks how a batch would be classified against a target
type PreviewRequest struct {
	TargetType   string   `json:"target_type" binding:"required"`
	TargetID     string   `json:"target_id" binding:"required,uuid"`
	InventoryIDs []string `json:"inventoryIds" binding:"required,min=1,max=500"`
}

// ItemRef identifies an item in a result
type ItemRef struct {
	ID           uuid.UUID `json:"id"`
	SerialNumber string    `json:"serial_number"`
}

// ResultDTO is the outcome of an assignment or a preview.
// For writes, Available lists the items that now point at the target.
type ResultDTO struct {
	TargetType      string                `json:"target_type"`
	TargetID        uuid.UUID             `json:"target_id"`
	TargetCode      string                `json:"target_code"`
	Available       []ItemRef             `json:"available"`
	AlreadyAssigned []ItemRef             `json:"already_assigned"`
	Unavailable     []assignment.Conflict `json:"unavailable"`
	Missing         []uuid.UUID           `json:"missing"`
	Conflicts       []string              `json:"conflicts"`
}

// ToResultDTO converts a partition to its response form. Slices are never nil.
func ToResultDTO(r assignment.Result) *ResultDTO {
	dto := &ResultDTO{
		TargetType:      r.Target.Type.String(),
		TargetID:        r.Target.ID,
		TargetCode:      r.Target.Code,
		Available:       toItemRefs(r.Available),
		AlreadyAssigned: toItemRefs(r.AlreadyAssigned),
		Unavailable:     r.Unavailable,
		Missing:         r.Missing,
		Conflicts:       r.ConflictCodes(),
	}
	if dto.Unavailable == nil {
		dto.Unavailable = []assignment.Conflict{}
	}
	if dto.Missing == nil {
		dto.Missing = []uuid.UUID{}
	}
	return dto
}

func toItemRefs(items []assignment.Ownership) []ItemRef {
	refs := make([]ItemRef, len(items))
	for i, item := range items {
		refs[i] = ItemRef{ID: item.ItemID, SerialNumber: item.SerialNumber}
	}
	return refs
}

// UnassignResult reports the item's links after an unassignment
type UnassignResult struct {
	ItemID          uuid.UUID  `json:"item_id"`
	SerialNumber    string     `json:"serial_number"`
	Slot            string     `json:"slot"`
	Changed         bool       `json:"changed"`
	PurchaseOrderID *uuid.UUID `json:"purchase_order_id"`
	InvoiceID       *uuid.UUID `json:"invoice_id"`
}
