package maintenance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
)

// reminderWindowDays is how far back SendOrderReminders looks for orders
// that still need a follow-up.
const reminderWindowDays = 7

// SendOrderReminders logs a reminder line for every order placed within
// the trailing reminder window.
func (j *Jobs) SendOrderReminders(ctx context.Context) error {
	now := j.clock.Now()
	since := now.AddDate(0, 0, -reminderWindowDays)
	ts := now.Format("2006-01-02 15:04:05")

	orders, err := j.orders.List(ctx, j.db, orderdomain.OrderFilter{OrderDateFrom: &since})
	if err != nil {
		_ = j.appendLines(reminderLogFile, fmt.Sprintf("[%s] ERROR: %v", ts, err))
		return err
	}

	if len(orders) == 0 {
		return j.appendLines(reminderLogFile, fmt.Sprintf("[%s] No recent orders found for reminders", ts))
	}

	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("[%s] Order ID: %s, Customer Email: %s", ts, o.ID, o.Customer.Email))
	}
	if err := j.appendLines(reminderLogFile, lines...); err != nil {
		return err
	}

	j.log.Info("order reminders processed", zap.Int("orders", len(orders)))
	return nil
}
