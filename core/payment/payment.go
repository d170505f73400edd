package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

type Provider string

const (
	SSLCommerzProvider Provider = "sslcommerz"
	StripeProvider     Provider = "stripe"
	PaypalProvider     Provider = "paypal"
)

type Status string

const (
	Pending Status = "pending"
	Success Status = "success"
)

// Payment is a checkout started with a provider. ProviderRef is the
// provider's own id for it (session key, checkout session, order).
type Payment struct {
	ID          string    `json:"id" db:"payment_id"`
	TranID      string    `json:"tranId" db:"tran_id"`
	Provider    Provider  `json:"provider" db:"provider"`
	ProviderRef string    `json:"providerRef" db:"provider_ref"`
	UserID      string    `json:"userId" db:"user_id"`
	ProductKind Kind      `json:"productKind" db:"product_kind"`
	ProductID   string    `json:"productId" db:"product_id"`
	Amount      int       `json:"amount" db:"amount"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

const columns = `payment_id, tran_id, provider, provider_ref, user_id, product_kind, product_id, amount, status, created_at, updated_at`

func Create(ctx context.Context, db sqlx.ExtContext, p Payment) error {
	const q = `
	INSERT INTO payments (payment_id, tran_id, provider, provider_ref, user_id, product_kind, product_id, amount, status, created_at, updated_at)
	VALUES (:payment_id, :tran_id, :provider, :provider_ref, :user_id, :product_kind, :product_id, :amount, :status, :created_at, :updated_at)`

	if _, err := database.NamedExecContext(ctx, db, q, p); err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func FetchByTranID(ctx context.Context, db sqlx.ExtContext, tranID string) (Payment, error) {
	q := `SELECT ` + columns + ` FROM payments WHERE tran_id = :tran_id`

	var p Payment
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"tran_id": tranID}, &p); err != nil {
		return Payment{}, fmt.Errorf("selecting payment[%s]: %w", tranID, err)
	}
	return p, nil
}

func FetchByProviderRef(ctx context.Context, db sqlx.ExtContext, provider Provider, ref string) (Payment, error) {
	q := `SELECT ` + columns + ` FROM payments WHERE provider = :provider AND provider_ref = :provider_ref`

	data := map[string]any{"provider": provider, "provider_ref": ref}

	var p Payment
	if err := database.NamedQueryStruct(ctx, db, q, data, &p); err != nil {
		return Payment{}, fmt.Errorf("selecting %s payment[%s]: %w", provider, ref, err)
	}
	return p, nil
}

// MarkSucceeded flips a pending payment to success. Transactions without a
// recorded payment, such as free enrollments, are left alone.
func MarkSucceeded(ctx context.Context, db sqlx.ExtContext, tranID string, now time.Time) error {
	const q = `
	UPDATE payments SET status = :success, updated_at = :updated_at
	WHERE tran_id = :tran_id AND status = :pending`

	data := map[string]any{
		"tran_id":    tranID,
		"success":    Success,
		"pending":    Pending,
		"updated_at": now,
	}

	if _, err := database.NamedExecContext(ctx, db, q, data); err != nil {
		return fmt.Errorf("marking payment[%s] as succeeded: %w", tranID, err)
	}
	return nil
}
