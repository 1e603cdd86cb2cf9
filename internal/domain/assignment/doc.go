// Package assignment decides which inventory items may be linked to a purchase
// order or an invoice.
//
// Classify is the single eligibility predicate. The authoritative write path
// and the read-only selection preview both go through it, so a preview can
// never disagree with what a subsequent assignment would do.
//
// An item holds at most one order link and at most one invoice link. Holding
// both is only valid when the invoice belongs to that same order.
package assignment
