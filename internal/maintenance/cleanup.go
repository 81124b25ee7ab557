package maintenance

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// inactiveCustomerDays is the retention window: a customer with no order
// placed within this many days is considered inactive and removed.
const inactiveCustomerDays = 365

// inactiveCustomers selects customers with either no orders at all or no
// order on or after the cutoff. The NOT EXISTS predicate covers both.
const inactiveCustomers = `
SELECT c.id FROM customers c
WHERE NOT EXISTS (
	SELECT 1 FROM orders o
	WHERE o.customer_id = c.id AND o.order_date >= ?
)`

// CleanupInactiveCustomers deletes inactive customers together with their
// stale orders and order-product rows in one transaction, then appends
// the deletion count to the cleanup log. It returns the number of
// customers removed.
func (j *Jobs) CleanupInactiveCustomers(ctx context.Context) (int64, error) {
	now := j.clock.Now()
	cutoff := now.AddDate(0, 0, -inactiveCustomerDays)

	var deleted int64
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM order_products WHERE order_id IN (
				SELECT id FROM orders WHERE customer_id IN (`+inactiveCustomers+`))`,
			cutoff,
		).Error; err != nil {
			return err
		}

		if err := tx.Exec(
			`DELETE FROM orders WHERE customer_id IN (`+inactiveCustomers+`)`,
			cutoff,
		).Error; err != nil {
			return err
		}

		// The derived table keeps MySQL from rejecting a delete that
		// selects from the same table.
		res := tx.Exec(
			`DELETE FROM customers WHERE id IN (
				SELECT id FROM (`+inactiveCustomers+`) AS inactive)`,
			cutoff,
		)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	line := fmt.Sprintf("[%s] Deleted %d inactive customers", now.Format("2006-01-02 15:04:05"), deleted)
	if err := j.appendLines(cleanupLogFile, line); err != nil {
		return deleted, err
	}

	j.log.Info("inactive customer cleanup complete",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return deleted, nil
}
