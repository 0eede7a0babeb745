package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/pkg/common"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	spec := a.configManager.GetString("sales", "ReconcileCron")
	if spec == "" {
		spec = "@daily"
	}
	if _, err := a.sched.AddFunc(spec, a.SchedReconcileDailySales); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	// Anonymous customer attribute rows carry no retention requirement
	// beyond the sales analytics window.
	if _, err := a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("scanned_at < ?", time.Now().Add(-time.Hour*24*365)).
			Delete(&domain.CustomerAttribute{})
	}); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedReconcileDailySales recomputes yesterday's and today's rollup rows
// from the orders table, replacing whatever the incremental event
// subscriber accumulated.
func (a *Application) SchedReconcileDailySales() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	for _, day := range []time.Time{time.Now().AddDate(0, 0, -1), time.Now()} {
		a.reconcileDay(day)
	}
}

func (a *Application) reconcileDay(day time.Time) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)
	dayKey := dayStart.Format("2006-01-02")

	var rows []struct {
		StoreID    int64
		TotalSales int64
		OrderCount int64
	}
	err := a.gormDB.Model(&domain.Order{}).
		Select("store_id, COALESCE(SUM(total_amount), 0) AS total_sales, COUNT(*) AS order_count").
		Where("ordered_at >= ? AND ordered_at < ?", dayStart, dayEnd).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		zap.L().Error("daily sales reconciliation query failed",
			zap.String("day", dayKey), zap.Error(err))
		return
	}

	for _, row := range rows {
		err := a.gormDB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "store_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_sales": row.TotalSales,
				"order_count": row.OrderCount,
				"updated_at":  time.Now(),
			}),
		}).Create(&domain.DailySales{
			ID:         common.UUIDint64(),
			StoreID:    row.StoreID,
			Day:        dayKey,
			TotalSales: row.TotalSales,
			OrderCount: row.OrderCount,
			UpdatedAt:  time.Now(),
		}).Error
		if err != nil {
			zap.L().Error("daily sales reconciliation write failed",
				zap.Int64("store_id", row.StoreID),
				zap.String("day", dayKey),
				zap.Error(err))
		}
	}

	zap.L().Info("daily sales reconciled",
		zap.String("day", dayKey),
		zap.Int("stores", len(rows)))
}
