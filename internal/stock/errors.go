package stock

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// NotFoundError is returned when a product id does not reference an
// active product.
type NotFoundError struct {
	ProductID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InvalidQuantityError is returned for a non-positive requested quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d, must be a positive integer", e.Quantity)
}

// InsufficientStockError is returned when a sale or adjustment would
// drive a product's stock below zero.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ContentionError wraps a transient storage conflict. The operation left
// no changes behind and is safe to retry.
type ContentionError struct {
	Err error
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("stock transaction conflict: %v", e.Err)
}

func (e *ContentionError) Unwrap() error {
	return e.Err
}

// IsContention reports whether err is a retryable ContentionError.
func IsContention(err error) bool {
	var ce *ContentionError
	return errors.As(err, &ce)
}

// transient substrings for sqlite busy locks and postgres
// serialization/lock failures (SQLSTATE 40001, 40P01, 55P03).
var transientMarkers = []string{
	"database is locked",
	"database table is locked",
	"SQLITE_BUSY",
	"40001",
	"40P01",
	"55P03",
	"deadlock detected",
	"could not serialize access",
	"lock timeout",
}

// classifyTxError maps raw storage errors to the core taxonomy. Typed
// core errors pass through untouched so the transaction wrapper never
// masks a business rejection.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	var iq *InvalidQuantityError
	var is *InsufficientStockError
	var ce *ContentionError
	if errors.As(err, &nf) || errors.As(err, &iq) || errors.As(err, &is) || errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	msg := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return &ContentionError{Err: err}
		}
	}
	return err
}
