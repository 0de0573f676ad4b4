package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/db/models"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/money"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Service renders printable HTML documents: price labels, an inventory
// report and sale receipts.
type Service interface {
	Labels(ctx context.Context, unitIDs []uuid.UUID) ([]byte, error)
	Report(ctx context.Context) ([]byte, error)
	Receipt(ctx context.Context, saleID uuid.UUID) ([]byte, error)
}

type unitLister interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error)
	ListAll(ctx context.Context) ([]models.InventoryUnit, error)
}

type saleLoader interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Sale, error)
}

type storeInfoProvider interface {
	StoreInfo(ctx context.Context) (name, document string)
}

type ServiceParams struct {
	Units  unitLister
	Sales  saleLoader
	Store  storeInfoProvider
	Logger *logger.Logger
}

type service struct {
	units     unitLister
	sales     saleLoader
	store     storeInfoProvider
	logg      *logger.Logger
	templates *template.Template
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Units == nil {
		return nil, fmt.Errorf("unit lister required")
	}
	if params.Sales == nil {
		return nil, fmt.Errorf("sale loader required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("store info provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	templates, err := template.New("printing").Funcs(template.FuncMap{
		"brl": func(cents int64) string { return money.FormatBRL(money.Cents(cents)) },
		"date": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return t.Format("02/01/2006")
			case *time.Time:
				if t == nil {
					return ""
				}
				return t.Format("02/01/2006")
			}
			return ""
		},
	}).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse print templates: %w", err)
	}

	return &service{
		units:     params.Units,
		sales:     params.Sales,
		store:     params.Store,
		logg:      params.Logger,
		templates: templates,
		now:       time.Now,
	}, nil
}

type labelData struct {
	Model     string
	StorageGB int
	Color     string
	Price     int64
	IMEI      string
}

func (s *service) Labels(ctx context.Context, unitIDs []uuid.UUID) ([]byte, error) {
	if len(unitIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one unit id is required")
	}

	labels := make([]labelData, 0, len(unitIDs))
	for _, id := range unitIDs {
		unit, err := s.units.FindByID(ctx, id)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("unit %s not found", id))
		}
		labels = append(labels, labelData{
			Model:     unit.Model,
			StorageGB: unit.StorageGB,
			Color:     unit.Color,
			Price:     unit.RetailCents,
			IMEI:      unit.IMEI,
		})
	}

	storeName, _ := s.store.StoreInfo(ctx)
	return s.render("labels.html.tmpl", map[string]any{
		"StoreName": storeName,
		"Labels":    labels,
	})
}

func (s *service) Report(ctx context.Context) ([]byte, error) {
	units, err := s.units.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list units")
	}

	var totalCost, totalRetail int64
	for _, unit := range units {
		totalCost += unit.CostCents
		totalRetail += unit.RetailCents
	}

	storeName, _ := s.store.StoreInfo(ctx)
	return s.render("report.html.tmpl", map[string]any{
		"StoreName":   storeName,
		"GeneratedAt": s.now(),
		"Units":       units,
		"TotalCost":   totalCost,
		"TotalRetail": totalRetail,
	})
}

type receiptItem struct {
	models.SaleItem
	DaysRemaining *int
}

func (s *service) Receipt(ctx context.Context, saleID uuid.UUID) ([]byte, error) {
	sale, err := s.sales.Find(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}

	now := s.now()
	items := make([]receiptItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		row := receiptItem{SaleItem: item}
		if item.WarrantyEnds != nil {
			days := money.DaysRemaining(now, *item.WarrantyEnds)
			row.DaysRemaining = &days
		}
		items = append(items, row)
	}

	storeName, storeDocument := s.store.StoreInfo(ctx)
	return s.render("receipt.html.tmpl", map[string]any{
		"StoreName":     storeName,
		"StoreDocument": storeDocument,
		"Sale":          sale,
		"Items":         items,
		"ChangeCents":   sale.PaidCents - sale.TotalCents,
	})
}

func (s *service) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render template")
	}
	return buf.Bytes(), nil
}
