package persistence

import (
	"context"
	"testing"

	"github.com/fleet/backend/internal/domain/identity"
	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFilter(term string) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = term
	return f
}

func TestFindAll_MatchesAccentedValues(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("purchase orders by supplier", func(t *testing.T) {
		repo := NewGormPurchaseOrderRepository(db)
		order, err := procurement.NewPurchaseOrder("OC-777", "Peña Motors", nil, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, order))

		for _, term := range []string{"Peña", "pena", "PEÑA MOTORS", "oc-777"} {
			found, total, err := repo.FindAll(ctx, procurement.OrderFilter{Filter: searchFilter(term)})
			require.NoError(t, err)
			assert.Equal(t, int64(1), total, "term %q", term)
			require.Len(t, found, 1)
			assert.Equal(t, "OC-777", found[0].Code)
		}

		// the key follows edits
		require.NoError(t, order.Update("Mühle Trucks", nil, decimal.Zero, ""))
		require.NoError(t, repo.Save(ctx, order))
		_, total, err := repo.FindAll(ctx, procurement.OrderFilter{Filter: searchFilter("muhle")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		_, total, err = repo.FindAll(ctx, procurement.OrderFilter{Filter: searchFilter("pena")})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("invoices by concept", func(t *testing.T) {
		repo := NewGormInvoiceRepository(db)
		invoice, err := procurement.NewInvoice("FAC-900", "Neumáticos camión", decimal.NewFromInt(10), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, invoice))

		for _, term := range []string{"neumaticos", "Neumáticos", "fac-900"} {
			found, _, err := repo.FindAll(ctx, procurement.InvoiceFilter{Filter: searchFilter(term)})
			require.NoError(t, err)
			require.Len(t, found, 1, "term %q", term)
			assert.Equal(t, "FAC-900", found[0].Code)
		}
	})

	t.Run("projects by name", func(t *testing.T) {
		repo := NewGormProjectRepository(db)
		project, err := procurement.NewProject("PRJ-5", "Renovación Metropolitana")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, project))

		found, _, err := repo.FindAll(ctx, searchFilter("renovacion"))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "PRJ-5", found[0].Code)
	})

	t.Run("vehicle models by brand", func(t *testing.T) {
		repo := NewGormVehicleModelRepository(db)
		vm, err := inventory.NewVehicleModel("Citroën", "Berlingo", 2022)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, vm))

		found, _, err := repo.FindAll(ctx, searchFilter("citroen"))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, vm.ID, found[0].ID)
	})

	t.Run("users by name", func(t *testing.T) {
		repo := NewGormUserRepository(db)
		user, err := identity.NewUser("jose@fleet.example", "José Núñez", "s3cretpass", identity.RoleViewer)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, user))

		for _, term := range []string{"nunez", "José", "jose@fleet"} {
			found, _, err := repo.FindAll(ctx, searchFilter(term))
			require.NoError(t, err)
			require.Len(t, found, 1, "term %q", term)
			assert.Equal(t, user.ID, found[0].ID)
		}
	})

	t.Run("wildcards in the term are literal", func(t *testing.T) {
		_, total, err := NewGormPurchaseOrderRepository(db).FindAll(ctx, procurement.OrderFilter{Filter: searchFilter("%")})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
