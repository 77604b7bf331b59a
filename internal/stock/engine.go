package stock

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/pkg/common"
	"github.com/invtrack/invtrack/pkg/metrics"
)

// TopicStockLevel is published on the event bus after every committed
// stock change.
const TopicStockLevel = "stock.level"

// EventBus is the minimal publish surface the engine needs. Satisfied by
// EventBus.Bus.
type EventBus interface {
	Publish(topic string, args ...interface{})
}

// LevelEvent is the post-commit stock snapshot delivered to subscribers.
type LevelEvent struct {
	ProductID         int64
	Name              string
	Sku               string
	NewQuantity       int
	CriticalThreshold int
	ReorderThreshold  int
	MaximumStock      int
	State             AlertState
}

// SaleRequest describes one sale of a single product.
type SaleRequest struct {
	ProductID     int64
	Quantity      int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PaymentMethod string
	Notes         string
	CreatedBy     string
}

// SaleOutcome is returned to the caller after a committed sale.
type SaleOutcome struct {
	SaleID      int64      `json:"sale_id,string"`
	SaleNumber  string     `json:"sale_number"`
	NewQuantity int        `json:"new_quantity"`
	AlertState  AlertState `json:"alert_state"`
}

// AdjustOutcome is returned after a committed restock or level set.
type AdjustOutcome struct {
	ProductID   int64      `json:"product_id,string"`
	NewQuantity int        `json:"new_quantity"`
	AlertState  AlertState `json:"alert_state"`
}

// Engine is the single choke point for every quantity change triggered
// by a sale or stock adjustment. It guarantees that the ledger append
// and the quantity decrement commit or roll back as one unit.
type Engine struct {
	db  *gorm.DB
	bus EventBus
}

// NewEngine creates a stock engine on an injected database handle. The
// bus may be nil, in which case no events are published.
func NewEngine(db *gorm.DB, bus EventBus) *Engine {
	return &Engine{db: db, bus: bus}
}

// RecordSale sells req.Quantity units of req.ProductID: it locks the
// product row, verifies availability, decrements stock, appends the
// ledger row and the OUT movement, then commits. Every error path rolls
// the whole unit of work back.
func (e *Engine) RecordSale(ctx context.Context, req SaleRequest) (*SaleOutcome, error) {
	if req.Quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: req.Quantity}
	}

	now := time.Now()
	outcome := &SaleOutcome{}
	var event LevelEvent
	var totalAmount float64

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog := NewGormCatalogRepository(tx)

		product, err := catalog.GetProductForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if req.Quantity > product.CurrentStock {
			return &InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.CurrentStock,
			}
		}

		newQuantity, err := catalog.AdjustQuantity(ctx, product.ID, -req.Quantity)
		if err != nil {
			return err
		}

		saleNumber := common.NextSaleNumber(now)
		record := &domain.InvSaleRecord{
			ID:            common.UUIDint64(),
			SaleNumber:    saleNumber,
			ProductID:     product.ID,
			Quantity:      req.Quantity,
			UnitPrice:     product.UnitPrice,
			TotalAmount:   product.UnitPrice * float64(req.Quantity),
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			SoldAt:        now,
		}
		saleID, err := NewGormLedgerRepository(tx).Append(ctx, record)
		if err != nil {
			return err
		}

		movement := &domain.InvStockMovement{
			ID:        common.UUIDint64(),
			ProductID: product.ID,
			Type:      domain.MovementOut,
			Quantity:  -req.Quantity,
			UnitPrice: product.UnitPrice,
			Reference: saleNumber,
			Notes:     req.Notes,
			CreatedBy: req.CreatedBy,
			CreatedAt: now,
		}
		if err := NewGormMovementRepository(tx).Record(ctx, movement); err != nil {
			return err
		}

		totalAmount = record.TotalAmount
		outcome.SaleID = saleID
		outcome.SaleNumber = saleNumber
		outcome.NewQuantity = newQuantity
		outcome.AlertState = ComputeAlertStateFor(newQuantity, product.CriticalThreshold, product.ReorderThreshold)
		event = levelEventFor(product, newQuantity, outcome.AlertState)
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err)
	}

	zap.L().Info("sale recorded",
		zap.Int64("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity),
		zap.String("sale_number", outcome.SaleNumber),
		zap.Int("new_quantity", outcome.NewQuantity),
		zap.String("alert_state", string(outcome.AlertState)))

	metrics.Record(metrics.MetricSaleCount, 1)
	metrics.Record(metrics.MetricSaleAmount, totalAmount)
	e.publish(event)
	return outcome, nil
}

// Restock adds quantity units of productID, recording an IN movement.
func (e *Engine) Restock(ctx context.Context, productID int64, quantity int, reference, notes, createdBy string) (*AdjustOutcome, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: quantity}
	}
	return e.applyAdjustment(ctx, productID, quantity, domain.MovementIn, reference, notes, createdBy)
}

// SetStockLevel sets productID's stock to newLevel, recording an
// ADJUSTMENT movement with the applied delta.
func (e *Engine) SetStockLevel(ctx context.Context, productID int64, newLevel int, notes, createdBy string) (*AdjustOutcome, error) {
	if newLevel < 0 {
		return nil, &InvalidQuantityError{Quantity: newLevel}
	}

	outcome, err := e.adjustInTx(ctx, productID, func(current int) int {
		return newLevel - current
	}, domain.MovementAdjustment, "", notes, createdBy)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (e *Engine) applyAdjustment(ctx context.Context, productID int64, delta int, movementType, reference, notes, createdBy string) (*AdjustOutcome, error) {
	return e.adjustInTx(ctx, productID, func(int) int { return delta }, movementType, reference, notes, createdBy)
}

func (e *Engine) adjustInTx(ctx context.Context, productID int64, deltaFor func(current int) int, movementType, reference, notes, createdBy string) (*AdjustOutcome, error) {
	now := time.Now()
	outcome := &AdjustOutcome{ProductID: productID}
	var event LevelEvent

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog := NewGormCatalogRepository(tx)

		product, err := catalog.GetProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		delta := deltaFor(product.CurrentStock)

		newQuantity := product.CurrentStock
		if delta != 0 {
			newQuantity, err = catalog.AdjustQuantity(ctx, productID, delta)
			if err != nil {
				return err
			}
			movement := &domain.InvStockMovement{
				ID:        common.UUIDint64(),
				ProductID: productID,
				Type:      movementType,
				Quantity:  delta,
				UnitPrice: product.UnitPrice,
				Reference: reference,
				Notes:     notes,
				CreatedBy: createdBy,
				CreatedAt: now,
			}
			if err := NewGormMovementRepository(tx).Record(ctx, movement); err != nil {
				return err
			}
		}

		outcome.NewQuantity = newQuantity
		outcome.AlertState = ComputeAlertStateFor(newQuantity, product.CriticalThreshold, product.ReorderThreshold)
		event = levelEventFor(product, newQuantity, outcome.AlertState)
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err)
	}

	zap.L().Info("stock adjusted",
		zap.Int64("product_id", productID),
		zap.String("movement_type", movementType),
		zap.Int("new_quantity", outcome.NewQuantity),
		zap.String("alert_state", string(outcome.AlertState)))

	e.publish(event)
	return outcome, nil
}

func (e *Engine) publish(event LevelEvent) {
	if event.State == AlertOutOfStock {
		metrics.Record(metrics.MetricStockOut, 1)
	}
	if e.bus != nil {
		e.bus.Publish(TopicStockLevel, event)
	}
}

func levelEventFor(product *domain.InvProduct, newQuantity int, state AlertState) LevelEvent {
	return LevelEvent{
		ProductID:         product.ID,
		Name:              product.Name,
		Sku:               product.Sku,
		NewQuantity:       newQuantity,
		CriticalThreshold: product.CriticalThreshold,
		ReorderThreshold:  product.ReorderThreshold,
		MaximumStock:      product.MaximumStock,
		State:             state,
	}
}
