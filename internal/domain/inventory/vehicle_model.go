package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/fleet/backend/internal/domain/shared"
)

// VehicleModel is the catalog entry (brand, name, year) items are instances of
type VehicleModel struct {
	shared.BaseEntity
	Brand string
	Name  string
	Year  int
}

// NewVehicleModel creates a catalog model
func NewVehicleModel(brand, name string, year int) (*VehicleModel, error) {
	brand = strings.TrimSpace(brand)
	name = strings.TrimSpace(name)
	if brand == "" {
		return nil, shared.NewDomainError("INVALID_BRAND", "Brand cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_MODEL_NAME", "Model name cannot be empty")
	}
	if year != 0 && (year < 1900 || year > time.Now().Year()+1) {
		return nil, shared.NewDomainError("INVALID_YEAR", "Model year is out of range")
	}

	return &VehicleModel{
		BaseEntity: shared.NewBaseEntity(),
		Brand:      brand,
		Name:       name,
		Year:       year,
	}, nil
}

// DisplayName returns "Brand Name" or "Brand Name (Year)"
func (m *VehicleModel) DisplayName() string {
	if m.Year == 0 {
		return m.Brand + " " + m.Name
	}
	return m.Brand + " " + m.Name + " (" + strconv.Itoa(m.Year) + ")"
}
