package maintenance

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// GenerateReport appends a one-line summary of total customers, orders
// and revenue to the report log.
func (j *Jobs) GenerateReport(ctx context.Context) error {
	ts := j.clock.Now().Format("2006-01-02 15:04:05")

	customers, err := j.customers.Count(ctx, j.db)
	if err != nil {
		_ = j.appendLines(reportLogFile, fmt.Sprintf("%s - ERROR generating CRM report: %v", ts, err))
		return err
	}
	totals, err := j.orders.Totals(ctx, j.db)
	if err != nil {
		_ = j.appendLines(reportLogFile, fmt.Sprintf("%s - ERROR generating CRM report: %v", ts, err))
		return err
	}

	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue.",
		ts, customers, totals.Orders, totals.Revenue.StringFixed(2))
	if err := j.appendLines(reportLogFile, line); err != nil {
		return err
	}

	j.log.Info("weekly report generated",
		zap.Int64("customers", customers),
		zap.Int64("orders", totals.Orders),
		zap.String("revenue", totals.Revenue.StringFixed(2)),
	)
	return nil
}
