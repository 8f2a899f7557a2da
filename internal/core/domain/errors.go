package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrAlreadyPurchased    = errors.New("game already purchased")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnauthorized        = errors.New("unauthorized")
)

// PartialPurchaseError reports that the balance debit committed but one or
// more of the follow-up steps (earnings credit, order record, entitlement
// grant) did not land. The buyer has already paid; PurchaseService.Complete
// retries the remainder.
type PartialPurchaseError struct {
	OrderID uuid.UUID
	Err     error
}

func (e *PartialPurchaseError) Error() string {
	return fmt.Sprintf("purchase %s partially applied: %v", e.OrderID, e.Err)
}

func (e *PartialPurchaseError) Unwrap() error {
	return e.Err
}
