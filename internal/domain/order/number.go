package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NumberGenerator produces candidate order numbers
type NumberGenerator func(now time.Time) string

// NewOrderNumber returns ORD-<YYYYMMDD>-<6 uppercase alphanumerics>
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	base := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is gone
			panic(fmt.Sprintf("order number: %v", err))
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// AllocateNumber draws candidates until one is not used by any order,
// soft-deleted ones included. The unique index still guards the insert.
func AllocateNumber(tx *gorm.DB, generate NumberGenerator, now time.Time, attempts int, taken map[string]bool) (string, error) {
	for i := 0; i < attempts; i++ {
		candidate := generate(now)
		if taken[candidate] {
			continue
		}

		var count int64
		if err := tx.Unscoped().Model(&Order{}).Where("order_number = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check order number: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number after %d attempts", attempts)
}
