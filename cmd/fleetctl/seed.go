package main

import (
	"encoding/json"

	assignmentapp "github.com/fleet/backend/internal/application/assignment"
	identityapp "github.com/fleet/backend/internal/application/identity"
	inventoryapp "github.com/fleet/backend/internal/application/inventory"
	procurementapp "github.com/fleet/backend/internal/application/procurement"
	"github.com/fleet/backend/internal/application/seed"
	"github.com/fleet/backend/internal/infrastructure/event"
	"github.com/fleet/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo vehicles, orders and invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envFrom(cmd)
			db, err := openDatabase(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			projects := persistence.NewGormProjectRepository(db.DB)
			orders := persistence.NewGormPurchaseOrderRepository(db.DB)
			invoices := persistence.NewGormInvoiceRepository(db.DB)
			items := persistence.NewGormInventoryItemRepository(db.DB)
			models := persistence.NewGormVehicleModelRepository(db.DB)
			users := persistence.NewGormUserRepository(db.DB)
			assignments := persistence.NewGormAssignmentRepository(db.DB)
			bus := event.NewInMemoryEventBus(e.log)

			seeder := seed.New(seed.Services{
				Models:      inventoryapp.NewVehicleModelService(models),
				Items:       inventoryapp.NewInventoryService(items, models, bus, e.log),
				Projects:    procurementapp.NewProjectService(projects),
				Orders:      procurementapp.NewPurchaseOrderService(orders, invoices, projects, items, bus, e.log),
				Invoices:    procurementapp.NewInvoiceService(invoices, orders, items, bus, e.log),
				Assignments: assignmentapp.NewAssignmentService(assignments, orders, invoices, items, bus, e.log),
				Users:       identityapp.NewUserService(users, bus, e.log),
			}, opts.Seed, e.log)

			sum, err := seeder.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed; 0 picks one")
	f.IntVar(&opts.Models, "models", opts.Models, "vehicle models to create")
	f.IntVar(&opts.Projects, "projects", opts.Projects, "projects to create")
	f.IntVar(&opts.Orders, "orders", opts.Orders, "purchase orders to create")
	f.IntVar(&opts.InvoicesPerOrder, "invoices-per-order", opts.InvoicesPerOrder, "invoices created under each order")
	f.IntVar(&opts.IndependentInvoices, "independent-invoices", opts.IndependentInvoices, "invoices without an order")
	f.IntVar(&opts.Items, "items", opts.Items, "inventory items to create")
	f.Float64Var(&opts.AssignRatio, "assign-ratio", opts.AssignRatio, "share of items linked to an order")
	f.StringVar(&opts.AdminEmail, "admin-email", opts.AdminEmail, "also create an ADMIN user with this email")
	f.StringVar(&opts.AdminPassword, "admin-password", opts.AdminPassword, "password for --admin-email")
	return cmd
}
