package app

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/ordering"
	"github.com/kiosklab/vendtix/pkg/common"
)

func (a *Application) initEventSubscribers() {
	if err := a.bus.SubscribeAsync(ordering.TopicOrderCommitted, a.onOrderCommitted, false); err != nil {
		zap.L().Error("failed to subscribe order events", zap.Error(err))
	}
}

// onOrderCommitted advances the daily_sales rollup by one order. The
// rollup is advisory: the nightly reconciliation job recomputes it from
// the orders table, so a lost event costs at most a day of drift.
func (a *Application) onOrderCommitted(evt ordering.CommittedEvent) {
	day := evt.OrderedAt.Format("2006-01-02")

	err := a.gormDB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_sales": gorm.Expr("daily_sales.total_sales + ?", evt.TotalAmount),
			"order_count": gorm.Expr("daily_sales.order_count + 1"),
			"updated_at":  time.Now(),
		}),
	}).Create(&domain.DailySales{
		ID:         common.UUIDint64(),
		StoreID:    evt.StoreID,
		Day:        day,
		TotalSales: int64(evt.TotalAmount),
		OrderCount: 1,
		UpdatedAt:  time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("failed to advance daily sales",
			zap.Int64("store_id", evt.StoreID),
			zap.String("day", day),
			zap.Error(err))
	}
}
