package maintenance

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RestockLowStock runs the low-stock restock through the product service
// and logs each updated product with its new stock level.
func (j *Jobs) RestockLowStock(ctx context.Context) error {
	ts := j.clock.Now().Format("02/01/2006-15:04:05")

	result, err := j.products.RestockLowStock(ctx)
	if err != nil {
		_ = j.appendLines(restockLogFile, fmt.Sprintf("[%s] ERROR restocking low stock: %v", ts, err), "")
		return err
	}

	lines := []string{fmt.Sprintf("[%s] Low stock update executed", ts)}
	lines = append(lines, fmt.Sprintf("Products updated: %d", result.Count))
	for _, p := range result.Products {
		lines = append(lines, fmt.Sprintf("  - %s: New stock level = %d", p.Name, p.Stock))
	}
	lines = append(lines, "")

	if err := j.appendLines(restockLogFile, lines...); err != nil {
		return err
	}

	j.log.Info("low stock restock complete", zap.Int("updated", result.Count))
	return nil
}
