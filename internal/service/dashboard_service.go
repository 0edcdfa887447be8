package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smartsuschef/backend-go/internal/domain"
)

// dashboardWindowDays is the lookback of the strategic overview.
const dashboardWindowDays = 30

type DashboardService struct {
	sales   *SalesService
	wastage *WastageService
	signals *SignalService

	now func() time.Time
}

func NewDashboardService(sales *SalesService, wastage *WastageService, signals *SignalService) *DashboardService {
	return &DashboardService{sales: sales, wastage: wastage, signals: signals, now: time.Now}
}

// GetSummary assembles the 30-day strategic overview for a store.
func (s *DashboardService) GetSummary(ctx context.Context, storeID int64) (*domain.DashboardSummary, error) {
	end := domain.DateOnly(s.now())
	start := end.AddDate(0, 0, -(dashboardWindowDays - 1))

	trend, err := s.sales.GetTrend(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}

	carbonKg, err := s.wastage.GetTotalCarbonImpact(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}

	isHoliday, _ := s.signals.IsHolidayToday(ctx, storeID)
	weather := s.signals.GetCurrentWeather(ctx, storeID)

	return &domain.DashboardSummary{
		SalesTrend:           trend,
		TotalWastageCarbonKg: carbonKg,
		IsHolidayToday:       isHoliday,
		CurrentWeather:       &weather,
		Period:               fmt.Sprintf("%s to %s", start.Format(domain.DateFormat), end.Format(domain.DateFormat)),
	}, nil
}
