package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/money"
	"github.com/outletplus/pos-backend/pkg/pagination"
)

// Service exposes the draft-cart state machine and sale reads.
type Service interface {
	CreateCart(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	GetCart(ctx context.Context, userID, cartID uuid.UUID) (*models.CartRecord, error)
	SetCustomer(ctx context.Context, userID, cartID uuid.UUID, customerID *uuid.UUID) error
	AddLine(ctx context.Context, userID, cartID, unitID uuid.UUID, priceCents *int64) (*models.CartRecord, error)
	RemoveLine(ctx context.Context, userID, cartID, lineID uuid.UUID) error
	AddPayment(ctx context.Context, userID, cartID uuid.UUID, method enums.PaymentMethod, amountCents int64, details *string) (*models.CartRecord, error)
	RemovePayment(ctx context.Context, userID, cartID, paymentID uuid.UUID) error
	Finalize(ctx context.Context, userID, cartID uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, from, to time.Time, page pagination.Params) ([]models.Sale, string, error)
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartRepository interface {
	Create(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	Find(ctx context.Context, id uuid.UUID) (*models.CartRecord, error)
	SetCustomer(ctx context.Context, cartID uuid.UUID, customerID *uuid.UUID) error
	AddLine(ctx context.Context, line *models.CartLine) error
	RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) error
	AddPayment(ctx context.Context, payment *models.CartPayment) error
	RemovePayment(ctx context.Context, cartID, paymentID uuid.UUID) error
}

type saleRepository interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, from, to time.Time, cursor *pagination.Cursor, limit int) ([]models.Sale, error)
}

type unitLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error)
}

type customerChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type warrantyProvider interface {
	WarrantyDays(ctx context.Context) int
}

// Transactional repo surfaces used inside Finalize.
type txCartRepo interface {
	MarkFinalized(ctx context.Context, cartID uuid.UUID) error
}

type txSaleRepo interface {
	Create(ctx context.Context, sale *models.Sale) (*models.Sale, error)
}

type txUnitRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error)
	Update(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error)
}

type (
	cartRepoFactory func(tx *gorm.DB) txCartRepo
	saleRepoFactory func(tx *gorm.DB) txSaleRepo
	unitRepoFactory func(tx *gorm.DB) txUnitRepo
)

// ServiceParams bundle the sales service dependencies.
type ServiceParams struct {
	DB        txRunner
	Carts     cartRepository
	Sales     saleRepository
	Units     unitLoader
	Customers customerChecker
	Warranty  warrantyProvider
	Logger    *logger.Logger

	// Factories binding repositories to the finalize transaction. Nil
	// factories default to the concrete repositories in this package.
	TxCarts cartRepoFactory
	TxSales saleRepoFactory
	TxUnits unitRepoFactory
}

type service struct {
	db        txRunner
	carts     cartRepository
	sales     saleRepository
	units     unitLoader
	customers customerChecker
	warranty  warrantyProvider
	logg      *logger.Logger

	txCarts cartRepoFactory
	txSales saleRepoFactory
	txUnits unitRepoFactory
	now     func() time.Time
}

// NewService builds the sales service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Sales == nil {
		return nil, fmt.Errorf("sale repository required")
	}
	if params.Units == nil {
		return nil, fmt.Errorf("unit loader required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer checker required")
	}
	if params.Warranty == nil {
		return nil, fmt.Errorf("warranty provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	txCarts := params.TxCarts
	if txCarts == nil {
		txCarts = func(tx *gorm.DB) txCartRepo { return NewCartRepository(tx) }
	}
	txSales := params.TxSales
	if txSales == nil {
		txSales = func(tx *gorm.DB) txSaleRepo { return NewSaleRepository(tx) }
	}
	txUnits := params.TxUnits

	return &service{
		db:        params.DB,
		carts:     params.Carts,
		sales:     params.Sales,
		units:     params.Units,
		customers: params.Customers,
		warranty:  params.Warranty,
		logg:      params.Logger,
		txCarts:   txCarts,
		txSales:   txSales,
		txUnits:   txUnits,
		now:       time.Now,
	}, nil
}

func (s *service) CreateCart(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	cart, err := s.carts.Create(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return cart, nil
}

// loadOpenCart fetches the cart and enforces ownership and open status.
func (s *service) loadOpenCart(ctx context.Context, userID, cartID uuid.UUID) (*models.CartRecord, error) {
	cart, err := s.carts.Find(ctx, cartID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if cart.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another user")
	}
	if cart.Status != enums.CartStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is already finalized")
	}
	return cart, nil
}

func (s *service) GetCart(ctx context.Context, userID, cartID uuid.UUID) (*models.CartRecord, error) {
	cart, err := s.carts.Find(ctx, cartID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if cart.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another user")
	}
	return cart, nil
}

func (s *service) SetCustomer(ctx context.Context, userID, cartID uuid.UUID, customerID *uuid.UUID) error {
	if _, err := s.loadOpenCart(ctx, userID, cartID); err != nil {
		return err
	}
	if customerID != nil {
		exists, err := s.customers.Exists(ctx, *customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check customer")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
	}
	if err := s.carts.SetCustomer(ctx, cartID, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set cart customer")
	}
	return nil
}

func (s *service) AddLine(ctx context.Context, userID, cartID, unitID uuid.UUID, priceCents *int64) (*models.CartRecord, error) {
	cart, err := s.loadOpenCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}

	for _, line := range cart.Lines {
		if line.UnitID == unitID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "unit is already in the cart")
		}
	}

	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory unit")
	}
	if unit.Status != enums.UnitStatusAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "unit is not available for sale")
	}

	price := unit.RetailCents
	if priceCents != nil {
		if *priceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line price must be positive")
		}
		price = *priceCents
	}

	line := &models.CartLine{
		CartID:     cartID,
		UnitID:     unitID,
		PriceCents: price,
	}
	if err := s.carts.AddLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart line")
	}
	return s.GetCart(ctx, userID, cartID)
}

func (s *service) RemoveLine(ctx context.Context, userID, cartID, lineID uuid.UUID) error {
	if _, err := s.loadOpenCart(ctx, userID, cartID); err != nil {
		return err
	}
	if err := s.carts.RemoveLine(ctx, cartID, lineID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	return nil
}

func (s *service) AddPayment(ctx context.Context, userID, cartID uuid.UUID, method enums.PaymentMethod, amountCents int64, details *string) (*models.CartRecord, error) {
	if _, err := s.loadOpenCart(ctx, userID, cartID); err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	payment := &models.CartPayment{
		CartID:      cartID,
		Method:      method,
		AmountCents: amountCents,
		Details:     details,
	}
	if err := s.carts.AddPayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart payment")
	}
	return s.GetCart(ctx, userID, cartID)
}

func (s *service) RemovePayment(ctx context.Context, userID, cartID, paymentID uuid.UUID) error {
	if _, err := s.loadOpenCart(ctx, userID, cartID); err != nil {
		return err
	}
	if err := s.carts.RemovePayment(ctx, cartID, paymentID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart payment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart payment")
	}
	return nil
}

// Totals sums a cart's lines and tendered payments.
func Totals(cart *models.CartRecord) (totalCents, paidCents int64) {
	for _, line := range cart.Lines {
		totalCents += line.PriceCents
	}
	for _, payment := range cart.Payments {
		paidCents += payment.AmountCents
	}
	return totalCents, paidCents
}

func (s *service) Finalize(ctx context.Context, userID, cartID uuid.UUID) (*models.Sale, error) {
	cart, err := s.loadOpenCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}

	if cart.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a customer must be selected before finalizing")
	}
	if len(cart.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	totalCents, paidCents := Totals(cart)
	if paidCents < totalCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payments do not cover the cart total").
			WithDetails(map[string]any{
				"shortfallCents": totalCents - paidCents,
				"shortfall":      money.FormatBRL(money.Cents(totalCents - paidCents)),
			})
	}

	soldAt := s.now().UTC()
	warrantyEnds := money.WarrantyEnd(soldAt, s.warranty.WarrantyDays(ctx))

	var sale *models.Sale
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		units := s.unitRepoForTx(tx)

		items := make([]models.SaleItem, 0, len(cart.Lines))
		flipped := make([]*models.InventoryUnit, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			unit, err := units.FindByID(ctx, line.UnitID)
			if err != nil {
				return fmt.Errorf("load unit %s: %w", line.UnitID, err)
			}
			if unit.Status != enums.UnitStatusAvailable {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "a unit in the cart is no longer available")
			}
			warranty := warrantyEnds
			items = append(items, models.SaleItem{
				UnitID:       unit.ID,
				Model:        unit.Model,
				StorageGB:    unit.StorageGB,
				Color:        unit.Color,
				IMEI:         unit.IMEI,
				PriceCents:   line.PriceCents,
				CostCents:    unit.CostCents,
				WarrantyEnds: &warranty,
			})
			flipped = append(flipped, unit)
		}

		payments := make([]models.SalePayment, 0, len(cart.Payments))
		for _, payment := range cart.Payments {
			payments = append(payments, models.SalePayment{
				Method:      payment.Method,
				AmountCents: payment.AmountCents,
				Details:     payment.Details,
			})
		}

		record := &models.Sale{
			CustomerID: *cart.CustomerID,
			SellerID:   userID,
			TotalCents: totalCents,
			PaidCents:  paidCents,
			SoldAt:     soldAt,
			Items:      items,
			Payments:   payments,
		}
		created, err := s.txSales(tx).Create(ctx, record)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		for i, unit := range flipped {
			price := cart.Lines[i].PriceCents
			warranty := warrantyEnds
			unit.Status = enums.UnitStatusSold
			unit.SoldAt = &soldAt
			unit.SoldCents = &price
			unit.CustomerID = cart.CustomerID
			unit.WarrantyEnds = &warranty
			if _, err := units.Update(ctx, unit); err != nil {
				return fmt.Errorf("mark unit %s sold: %w", unit.ID, err)
			}
		}

		if err := s.txCarts(tx).MarkFinalized(ctx, cartID); err != nil {
			return fmt.Errorf("mark cart finalized: %w", err)
		}

		sale = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize sale")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"sale_id":     sale.ID,
		"total_cents": totalCents,
		"items":       len(sale.Items),
	})
	s.logg.Info(logCtx, "sale finalized")
	return sale, nil
}

func (s *service) ListSales(ctx context.Context, from, to time.Time, page pagination.Params) ([]models.Sale, string, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	out, err := s.sales.List(ctx, from, to, cursor, pagination.LimitWithBuffer(page.Limit))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}

	next := ""
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		next = pagination.EncodeCursor(pagination.Cursor{Timestamp: last.SoldAt, ID: last.ID})
	}
	return out, next, nil
}

func (s *service) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.sales.Find(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale")
	}
	return sale, nil
}

func (s *service) unitRepoForTx(tx *gorm.DB) txUnitRepo {
	if s.txUnits != nil {
		return s.txUnits(tx)
	}
	return defaultUnitRepo{db: tx}
}

// defaultUnitRepo is a minimal GORM-backed unit accessor for finalize.
type defaultUnitRepo struct {
	db *gorm.DB
}

func (r defaultUnitRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	var unit models.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r defaultUnitRepo) Update(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error) {
	if err := r.db.WithContext(ctx).Save(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}
