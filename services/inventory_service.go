package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"planora.app/authz"
	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryInput carries the editable fields of an inventory item.
type InventoryInput struct {
	Name              string          `json:"name" form:"name"`
	SKU               string          `json:"sku" form:"sku"`
	Description       string          `json:"description" form:"description"`
	Quantity          int             `json:"quantity" form:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold" form:"low_stock_threshold"`
	UnitPrice         decimal.Decimal `json:"unit_price" form:"-"`
	Location          string          `json:"location" form:"location"`
	CategoryID        *uint           `json:"category_id,omitempty" form:"category_id"`
}

// InventorySummary aggregates stock figures for the dashboard.
type InventorySummary struct {
	Items      int64                  `json:"items"`
	LowStock   int64                  `json:"low_stock"`
	LowStocked []models.InventoryItem `json:"low_stocked"`
}

type IInventoryService interface {
	Create(ctx context.Context, p authz.Principal, in InventoryInput) (*models.InventoryItem, error)
	Update(ctx context.Context, p authz.Principal, id uint, in InventoryInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, p authz.Principal, id uint) error
	Get(ctx context.Context, p authz.Principal, id uint) (*models.InventoryItem, error)
	List(ctx context.Context, p authz.Principal, params queryparams.ListParams, filter repositories.InventoryFilter) (*queryparams.PaginatedResult, error)
	AdjustQuantity(ctx context.Context, p authz.Principal, id uint, delta int) (*models.InventoryItem, error)
	Summary(ctx context.Context, p authz.Principal) (*InventorySummary, error)
	Categories(ctx context.Context, p authz.Principal) ([]models.Category, error)
}

type InventoryService struct {
	db         *gorm.DB
	enrichment IEnrichmentService
}

func NewInventoryService(db *gorm.DB, enrichment IEnrichmentService) IInventoryService {
	return &InventoryService{db: db, enrichment: enrichment}
}

func (in *InventoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" {
		return Validation("name is required")
	}
	if len(in.Name) > 150 {
		return Validation("name must be at most 150 characters")
	}
	if in.Quantity < 0 || in.LowStockThreshold < 0 {
		return Validation("quantity and threshold must not be negative")
	}
	if in.UnitPrice.IsNegative() {
		return Validation("unit price must not be negative")
	}
	in.UnitPrice = in.UnitPrice.Round(2)
	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}
	return nil
}

func (s *InventoryService) resolveCategory(ctx context.Context, in *InventoryInput) error {
	if in.CategoryID != nil {
		if _, err := repositories.NewCategoryRepository(s.db).FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		return nil
	}
	if s.enrichment == nil {
		return nil
	}
	if c := s.enrichment.SuggestCategory(ctx, in.Name); c != nil {
		in.CategoryID = &c.ID
	}
	return nil
}

func (s *InventoryService) Create(ctx context.Context, p authz.Principal, in InventoryInput) (*models.InventoryItem, error) {
	if !p.Can(authz.InventoryManage) {
		return nil, ErrPermissionDenied
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, &in); err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("resolving category: %w", err)
	}
	item := &models.InventoryItem{
		Name:              in.Name,
		SKU:               in.SKU,
		Description:       in.Description,
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
		UnitPrice:         in.UnitPrice,
		Location:          in.Location,
		CategoryID:        in.CategoryID,
		OwnerID:           p.UserID,
	}
	if err := repositories.NewInventoryRepository(s.db).Create(ctx, item); err != nil {
		configslog.Log.Error("Inventory item could not be created", zap.String("name", in.Name), zap.Error(err))
		return nil, fmt.Errorf("creating inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) Update(ctx context.Context, p authz.Principal, id uint, in InventoryInput) (*models.InventoryItem, error) {
	if !p.Can(authz.InventoryManage) {
		return nil, ErrPermissionDenied
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, &in); err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("resolving category: %w", err)
	}
	repo := repositories.NewInventoryRepository(s.db)
	item, err := s.find(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.SKU = in.SKU
	item.Description = in.Description
	item.Quantity = in.Quantity
	item.LowStockThreshold = in.LowStockThreshold
	item.UnitPrice = in.UnitPrice
	item.Location = in.Location
	item.CategoryID = in.CategoryID
	if err := repo.Update(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("updating inventory item %d: %w", id, err)
	}
	return s.find(ctx, repo, id)
}

func (s *InventoryService) find(ctx context.Context, repo repositories.IInventoryRepository, id uint) (*models.InventoryItem, error) {
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("loading inventory item %d: %w", id, err)
	}
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, p authz.Principal, id uint) error {
	if !p.Can(authz.InventoryManage) {
		return ErrPermissionDenied
	}
	if err := repositories.NewInventoryRepository(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("deleting inventory item %d: %w", id, err)
	}
	return nil
}

func (s *InventoryService) Get(ctx context.Context, p authz.Principal, id uint) (*models.InventoryItem, error) {
	if !p.Can(authz.InventoryRead) {
		return nil, ErrPermissionDenied
	}
	return s.find(ctx, repositories.NewInventoryRepository(s.db), id)
}

func (s *InventoryService) List(ctx context.Context, p authz.Principal, params queryparams.ListParams, filter repositories.InventoryFilter) (*queryparams.PaginatedResult, error) {
	if !p.Can(authz.InventoryRead) {
		return nil, ErrPermissionDenied
	}
	params.Validate()
	items, total, err := repositories.NewInventoryRepository(s.db).FindAllPaginated(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return queryparams.NewPaginatedResult(items, params, total), nil
}

// AdjustQuantity adds delta (possibly negative) to the stock level.
func (s *InventoryService) AdjustQuantity(ctx context.Context, p authz.Principal, id uint, delta int) (*models.InventoryItem, error) {
	if !p.Can(authz.InventoryManage) {
		return nil, ErrPermissionDenied
	}
	if delta == 0 {
		return nil, Validation("adjustment must not be zero")
	}
	repo := repositories.NewInventoryRepository(s.db)
	item, err := s.find(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if item.Quantity+delta < 0 {
		return nil, ErrInsufficientQuantity
	}
	if err := repo.AdjustQuantity(ctx, id, delta); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// the row exists, so a concurrent withdrawal took the stock
			return nil, ErrInsufficientQuantity
		}
		return nil, fmt.Errorf("adjusting inventory item %d: %w", id, err)
	}
	return s.find(ctx, repo, id)
}

func (s *InventoryService) Summary(ctx context.Context, p authz.Principal) (*InventorySummary, error) {
	if !p.Can(authz.InventoryRead) {
		return nil, ErrPermissionDenied
	}
	repo := repositories.NewInventoryRepository(s.db)
	items, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting inventory: %w", err)
	}
	low, err := repo.CountLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting low stock: %w", err)
	}
	lowItems, err := repo.FindLowStock(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("listing low stock: %w", err)
	}
	return &InventorySummary{Items: items, LowStock: low, LowStocked: lowItems}, nil
}

func (s *InventoryService) Categories(ctx context.Context, p authz.Principal) ([]models.Category, error) {
	if !p.Can(authz.InventoryRead) {
		return nil, ErrPermissionDenied
	}
	categories, err := repositories.NewCategoryRepository(s.db).FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

var _ IInventoryService = (*InventoryService)(nil)
