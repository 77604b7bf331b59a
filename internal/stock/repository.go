package stock

import (
	"context"
	"errors"
	"time"

	perrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/invtrack/invtrack/internal/domain"
)

// CatalogRepository exposes the quantity primitives of the catalog store.
// AdjustQuantity is the only mutation path for a product's stock and must
// be called inside the engine's transaction, after GetProductForUpdate has
// taken the row lock.
type CatalogRepository interface {
	// GetProduct reads a product without locking.
	GetProduct(ctx context.Context, id int64) (*domain.InvProduct, error)

	// GetProductForUpdate reads an active product under a row lock.
	GetProductForUpdate(ctx context.Context, id int64) (*domain.InvProduct, error)

	// AdjustQuantity applies delta (may be negative) and returns the new
	// quantity. Fails with InsufficientStockError if the result would be
	// negative.
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
}

// LedgerRepository is the append-only sales ledger. No update or delete
// methods exist; ledger rows are immutable once written.
type LedgerRepository interface {
	Append(ctx context.Context, record *domain.InvSaleRecord) (int64, error)
}

// MovementRepository records stock movement audit rows.
type MovementRepository interface {
	Record(ctx context.Context, movement *domain.InvStockMovement) error
}

// GormCatalogRepository is the GORM implementation of CatalogRepository.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM-based catalog repository.
// Pass a transaction handle to scope operations to that transaction.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetProduct(ctx context.Context, id int64) (*domain.InvProduct, error) {
	var product domain.InvProduct
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, perrors.Wrap(err, "query product")
	}
	return &product, nil
}

func (r *GormCatalogRepository) GetProductForUpdate(ctx context.Context, id int64) (*domain.InvProduct, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its single-writer transaction lock plus
	// _txlock=immediate covers the read-modify-write window instead
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product domain.InvProduct
	err := q.Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, perrors.Wrap(err, "lock product")
	}
	return &product, nil
}

func (r *GormCatalogRepository) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	product, err := r.GetProductForUpdate(ctx, id)
	if err != nil {
		return 0, err
	}
	newQuantity := product.CurrentStock + delta
	if newQuantity < 0 {
		return 0, &InsufficientStockError{
			ProductID: id,
			Requested: -delta,
			Available: product.CurrentStock,
		}
	}
	err = r.db.WithContext(ctx).Model(&domain.InvProduct{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": newQuantity,
			"updated_at":    time.Now(),
		}).Error
	if err != nil {
		return 0, perrors.Wrap(err, "update product stock")
	}
	return newQuantity, nil
}

// GormLedgerRepository is the GORM implementation of LedgerRepository.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM-based ledger repository.
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) Append(ctx context.Context, record *domain.InvSaleRecord) (int64, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return 0, perrors.Wrap(err, "append sale record")
	}
	return record.ID, nil
}

// GormMovementRepository is the GORM implementation of MovementRepository.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GORM-based movement repository.
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

func (r *GormMovementRepository) Record(ctx context.Context, movement *domain.InvStockMovement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return perrors.Wrap(err, "record stock movement")
	}
	return nil
}
