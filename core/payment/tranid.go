package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/irsalhamdi/eduverse/random"
	"github.com/irsalhamdi/eduverse/validate"
)

// Kind is the type of product a transaction buys.
type Kind string

const (
	KindCourse Kind = "course"
	KindLive   Kind = "live"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCourse, KindLive:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown product kind %q", s)
}

// ErrInvalidTransaction is returned for transaction ids that are malformed
// or point to users or products that do not exist.
var ErrInvalidTransaction = errors.New("invalid transaction")

const nonceLength = 12

// Transaction is the decoded form of a tran_id, which travels through the
// payment gateway and back: <kind>_<user>_<product>_<nonce>.
type Transaction struct {
	Kind      Kind
	UserID    string
	ProductID string
	Nonce     string
}

func NewTransaction(kind Kind, userID, productID string) Transaction {
	return Transaction{
		Kind:      kind,
		UserID:    userID,
		ProductID: productID,
		Nonce:     random.Nonce(nonceLength),
	}
}

func (t Transaction) String() string {
	return strings.Join([]string{string(t.Kind), t.UserID, t.ProductID, t.Nonce}, "_")
}

func ParseTransaction(tranID string) (Transaction, error) {
	parts := strings.Split(tranID, "_")
	if len(parts) != 4 {
		return Transaction{}, fmt.Errorf("tran_id %q has %d segments: %w", tranID, len(parts), ErrInvalidTransaction)
	}

	for _, p := range parts {
		if p == "" {
			return Transaction{}, fmt.Errorf("tran_id %q has an empty segment: %w", tranID, ErrInvalidTransaction)
		}
	}

	kind, err := ParseKind(parts[0])
	if err != nil {
		return Transaction{}, fmt.Errorf("tran_id %q: %v: %w", tranID, err, ErrInvalidTransaction)
	}

	if validate.CheckID(parts[1]) != nil || validate.CheckID(parts[2]) != nil {
		return Transaction{}, fmt.Errorf("tran_id %q carries malformed ids: %w", tranID, ErrInvalidTransaction)
	}

	return Transaction{
		Kind:      kind,
		UserID:    parts[1],
		ProductID: parts[2],
		Nonce:     parts[3],
	}, nil
}
