// Package models holds the GORM persistence models and their mappers to and
// from domain types. Domain packages never import gorm; these models are the
// only place where table layout, column types and indexes live.
package models

// All returns every model, in dependency order, for AutoMigrate.
// Postgres deployments use the SQL migrations instead.
func All() []any {
	return []any{
		&VehicleModelModel{},
		&ProjectModel{},
		&PurchaseOrderModel{},
		&InvoiceModel{},
		&InventoryItemModel{},
		&UserModel{},
	}
}
