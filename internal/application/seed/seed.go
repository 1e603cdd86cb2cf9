// Package seed fills an empty database with demo fleet data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	appassignment "github.com/fleet/backend/internal/application/assignment"
	identityapp "github.com/fleet/backend/internal/application/identity"
	inventoryapp "github.com/fleet/backend/internal/application/inventory"
	procurementapp "github.com/fleet/backend/internal/application/procurement"
	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Services are the application services the seeder writes through, so demo
// data passes the same validation as API traffic
type Services struct {
	Models      ModelCreator
	Items       ItemCreator
	Projects    ProjectCreator
	Orders      OrderCreator
	Invoices    InvoiceCreator
	Assignments Assigner
	Users       UserCreator
}

type ModelCreator interface {
	Create(ctx context.Context, req inventoryapp.CreateVehicleModelRequest) (*inventoryapp.VehicleModelResponse, error)
}

type ItemCreator interface {
	Create(ctx context.Context, req inventoryapp.CreateItemRequest) (*inventoryapp.ItemResponse, error)
}

type ProjectCreator interface {
	Create(ctx context.Context, req procurementapp.CreateProjectRequest) (*procurementapp.ProjectResponse, error)
}

type OrderCreator interface {
	Create(ctx context.Context, req procurementapp.CreatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error)
}

type InvoiceCreator interface {
	Create(ctx context.Context, req procurementapp.CreateInvoiceRequest) (*procurementapp.InvoiceResponse, error)
	CreateForOrder(ctx context.Context, orderID uuid.UUID, req procurementapp.CreateInvoiceRequest) (*procurementapp.InvoiceResponse, error)
}

type Assigner interface {
	AssignToPurchaseOrder(ctx context.Context, orderID uuid.UUID, rawIDs []string) (*appassignment.ResultDTO, error)
	AssignToOrderInvoice(ctx context.Context, orderID, invoiceID uuid.UUID, rawIDs []string) (*appassignment.ResultDTO, error)
}

type UserCreator interface {
	Create(ctx context.Context, input identityapp.CreateUserInput) (*identityapp.UserDTO, error)
}

// Options sizes the generated data set
type Options struct {
	// Seed makes runs reproducible; zero picks a random seed
	Seed                uint64
	Models              int
	Projects            int
	Orders              int
	InvoicesPerOrder    int
	IndependentInvoices int
	Items               int
	// AssignRatio is the share of items linked to an order, between 0 and 1
	AssignRatio float64
	AdminEmail  string
	// AdminPassword is required when AdminEmail is set
	AdminPassword string
}

// DefaultOptions returns a small data set suitable for a laptop
func DefaultOptions() Options {
	return Options{
		Models:              8,
		Projects:            3,
		Orders:              10,
		InvoicesPerOrder:    2,
		IndependentInvoices: 3,
		Items:               120,
		AssignRatio:         0.6,
	}
}

// Summary counts what a run created
type Summary struct {
	Models   int `json:"models"`
	Projects int `json:"projects"`
	Orders   int `json:"orders"`
	Invoices int `json:"invoices"`
	Items    int `json:"items"`
	Linked   int `json:"linked"`
	Users    int `json:"users"`
}

// Seeder generates demo data with gofakeit
type Seeder struct {
	svc    Services
	faker  *gofakeit.Faker
	logger *zap.Logger
}

// New creates a Seeder
func New(svc Services, seed uint64, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{svc: svc, faker: gofakeit.New(seed), logger: logger.Named("seed")}
}

type seededOrder struct {
	id       uuid.UUID
	invoices []uuid.UUID
}

// Run creates the data set described by opts. Codes that already exist are
// skipped, so running twice with the same seed is harmless.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.AdminEmail != "" && opts.AdminPassword == "" {
		return nil, errors.New("admin password is required with an admin email")
	}
	if opts.AssignRatio < 0 || opts.AssignRatio > 1 {
		return nil, fmt.Errorf("assign ratio must be between 0 and 1, got %v", opts.AssignRatio)
	}

	sum := &Summary{}

	if opts.AdminEmail != "" {
		_, err := s.svc.Users.Create(ctx, identityapp.CreateUserInput{
			Email:    opts.AdminEmail,
			Name:     "Administrator",
			Password: opts.AdminPassword,
			Role:     "ADMIN",
		})
		if skip, err := s.created(err, "user", opts.AdminEmail); err != nil {
			return sum, err
		} else if !skip {
			sum.Users++
		}
	}

	models := make([]uuid.UUID, 0, opts.Models)
	for i := 0; i < opts.Models; i++ {
		model, err := s.svc.Models.Create(ctx, inventoryapp.CreateVehicleModelRequest{
			Brand: s.faker.CarMaker(),
			Name:  s.faker.CarModel(),
			Year:  s.faker.Number(2015, 2026),
		})
		if err != nil {
			return sum, fmt.Errorf("create model: %w", err)
		}
		models = append(models, model.ID)
		sum.Models++
	}
	if len(models) == 0 && opts.Items > 0 {
		return sum, errors.New("items need at least one vehicle model")
	}

	projects := make([]uuid.UUID, 0, opts.Projects)
	for i := 1; i <= opts.Projects; i++ {
		code := fmt.Sprintf("PRJ-%03d", i)
		project, err := s.svc.Projects.Create(ctx, procurementapp.CreateProjectRequest{
			Code: code,
			Name: s.faker.Company() + " fleet",
		})
		if skip, err := s.created(err, "project", code); err != nil {
			return sum, err
		} else if !skip {
			projects = append(projects, project.ID)
			sum.Projects++
		}
	}

	orders := make([]seededOrder, 0, opts.Orders)
	invoiceSeq := 0
	for i := 1; i <= opts.Orders; i++ {
		code := fmt.Sprintf("OC-%04d", i)
		req := procurementapp.CreatePurchaseOrderRequest{
			Code:     code,
			Supplier: s.faker.Company(),
			Amount:   s.amount(),
			Notes:    s.faker.Sentence(8),
		}
		// roughly one order in three is independent of any project
		if len(projects) > 0 && s.faker.Number(0, 2) > 0 {
			projectID := projects[s.faker.Number(0, len(projects)-1)]
			req.ProjectID = &projectID
		}
		order, err := s.svc.Orders.Create(ctx, req)
		if skip, err := s.created(err, "purchase order", code); err != nil {
			return sum, err
		} else if skip {
			continue
		}
		sum.Orders++

		so := seededOrder{id: order.ID}
		for j := 0; j < opts.InvoicesPerOrder; j++ {
			invoiceSeq++
			invoiceCode := fmt.Sprintf("FAC-%05d", invoiceSeq)
			invoice, err := s.svc.Invoices.CreateForOrder(ctx, order.ID, procurementapp.CreateInvoiceRequest{
				Code:    invoiceCode,
				Concept: s.faker.Sentence(4),
				Amount:  s.amount(),
			})
			if skip, err := s.created(err, "invoice", invoiceCode); err != nil {
				return sum, err
			} else if !skip {
				so.invoices = append(so.invoices, invoice.ID)
				sum.Invoices++
			}
		}
		orders = append(orders, so)
	}

	for i := 0; i < opts.IndependentInvoices; i++ {
		invoiceSeq++
		invoiceCode := fmt.Sprintf("FAC-%05d", invoiceSeq)
		_, err := s.svc.Invoices.Create(ctx, procurementapp.CreateInvoiceRequest{
			Code:    invoiceCode,
			Concept: s.faker.Sentence(4),
			Amount:  s.amount(),
		})
		if skip, err := s.created(err, "invoice", invoiceCode); err != nil {
			return sum, err
		} else if !skip {
			sum.Invoices++
		}
	}

	items := make([]string, 0, opts.Items)
	for i := 0; i < opts.Items; i++ {
		serial := s.serialNumber()
		item, err := s.svc.Items.Create(ctx, inventoryapp.CreateItemRequest{
			SerialNumber: serial,
			ActiveNumber: s.faker.Numerify("ACT-######"),
			ModelID:      models[s.faker.Number(0, len(models)-1)],
			Status:       s.faker.RandomString([]string{"ALTA", "ALTA", "ALTA", "PROPUESTA", "BAJA"}),
			Plate:        s.faker.Numerify("####") + strings.ToUpper(s.faker.Lexify("???")),
		})
		if skip, err := s.created(err, "item", serial); err != nil {
			return sum, err
		} else if !skip {
			items = append(items, item.ID.String())
			sum.Items++
		}
	}

	linked, err := s.assign(ctx, orders, items, opts.AssignRatio)
	sum.Linked = linked
	if err != nil {
		return sum, err
	}

	s.logger.Info("seed completed",
		zap.Int("models", sum.Models),
		zap.Int("projects", sum.Projects),
		zap.Int("orders", sum.Orders),
		zap.Int("invoices", sum.Invoices),
		zap.Int("items", sum.Items),
		zap.Int("linked", sum.Linked),
	)
	return sum, nil
}

// assign spreads the first share of items over the orders. Every other batch
// goes through one of the order's invoices so both link shapes exist.
func (s *Seeder) assign(ctx context.Context, orders []seededOrder, items []string, ratio float64) (int, error) {
	if len(orders) == 0 || len(items) == 0 {
		return 0, nil
	}
	toLink := items[:int(float64(len(items))*ratio)]
	batch := (len(toLink) + len(orders) - 1) / len(orders)
	if batch == 0 {
		return 0, nil
	}

	linked := 0
	for i, order := range orders {
		start := i * batch
		if start >= len(toLink) {
			break
		}
		end := min(start+batch, len(toLink))
		ids := toLink[start:end]

		var (
			result *appassignment.ResultDTO
			err    error
		)
		if len(order.invoices) > 0 && i%2 == 1 {
			invoiceID := order.invoices[s.faker.Number(0, len(order.invoices)-1)]
			result, err = s.svc.Assignments.AssignToOrderInvoice(ctx, order.id, invoiceID, ids)
		} else {
			result, err = s.svc.Assignments.AssignToPurchaseOrder(ctx, order.id, ids)
		}
		if err != nil && !errors.Is(err, assignment.ErrAssignmentConflict) {
			return linked, fmt.Errorf("assign items: %w", err)
		}
		if result != nil {
			linked += len(result.Available)
		}
	}
	return linked, nil
}

// created turns ALREADY_EXISTS into a skip so reruns are idempotent
func (s *Seeder) created(err error, kind, key string) (skipped bool, _ error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, shared.ErrAlreadyExists) {
		s.logger.Debug("already seeded, skipping", zap.String("kind", kind), zap.String("key", key))
		return true, nil
	}
	return false, fmt.Errorf("create %s %s: %w", kind, key, err)
}

func (s *Seeder) amount() decimal.Decimal {
	return decimal.NewFromFloat(s.faker.Price(1500, 180000)).Round(2)
}

// serialNumber returns a VIN shaped serial: 17 characters without I, O or Q
func (s *Seeder) serialNumber() string {
	const alphabet = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"
	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 17; i++ {
		b.WriteByte(alphabet[s.faker.Number(0, len(alphabet)-1)])
	}
	return b.String()
}
