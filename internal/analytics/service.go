package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/afigueroa/mailprov-backend/pkg/config"
	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
)

const growthWindow = 7 * 24 * time.Hour

type userCounter interface {
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type orderCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type activityReader interface {
	Recent(ctx context.Context, n int) ([]models.AdminActivity, error)
}

// Stats is the dashboard headline block.
type Stats struct {
	TotalUsers      int64                       `json:"total_users"`
	TotalOrders     int64                       `json:"total_orders"`
	OrdersByStatus  map[enums.OrderStatus]int64 `json:"orders_by_status"`
	PendingOrders   int64                       `json:"pending_orders"`
	DeliveredOrders int64                       `json:"delivered_orders"`
	RevenueEstimate string                      `json:"revenue_estimate"`
	Currency        string                      `json:"currency"`
	NewUsers7d      int64                       `json:"new_users_7d"`
	NewOrders7d     int64                       `json:"new_orders_7d"`
	RecentActivity  []models.AdminActivity      `json:"recent_activity"`
}

// SeriesPoint is one day of sign-up and order volume.
type SeriesPoint struct {
	Date   string `json:"date"`
	Users  int64  `json:"users"`
	Orders int64  `json:"orders"`
}

// Report is the time-series analytics block.
type Report struct {
	Days   int           `json:"days"`
	Series []SeriesPoint `json:"series"`
}

// Service aggregates counters for the admin dashboard.
type Service struct {
	users    userCounter
	orders   orderCounter
	activity activityReader
	pricing  config.PricingConfig
	now      func() time.Time
}

// NewService wires the analytics service dependencies.
func NewService(users userCounter, orders orderCounter, activity activityReader, pricing config.PricingConfig) (*Service, error) {
	if users == nil || orders == nil || activity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics repositories required")
	}
	return &Service{
		users:    users,
		orders:   orders,
		activity: activity,
		pricing:  pricing,
		now:      time.Now,
	}, nil
}

// Stats builds the headline dashboard numbers. Revenue is an estimate: the
// delivered order count times the monthly price, in whole currency units.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}

	cutoff := s.now().Add(-growthWindow)
	newUsers, err := s.users.CountCreatedSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recent users")
	}
	newOrders, err := s.orders.CountCreatedSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recent orders")
	}

	recent, err := s.activity.Recent(ctx, 10)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent activity")
	}

	delivered := byStatus[enums.OrderStatusDelivered]
	revenue := decimal.NewFromInt(delivered).
		Mul(decimal.NewFromInt(int64(s.pricing.MonthlyPriceCents))).
		Div(decimal.NewFromInt(100))

	return &Stats{
		TotalUsers:      totalUsers,
		TotalOrders:     totalOrders,
		OrdersByStatus:  byStatus,
		PendingOrders:   byStatus[enums.OrderStatusPending],
		DeliveredOrders: delivered,
		RevenueEstimate: revenue.StringFixed(2),
		Currency:        s.pricing.Currency,
		NewUsers7d:      newUsers,
		NewOrders7d:     newOrders,
		RecentActivity:  recent,
	}, nil
}

// Analytics returns daily sign-up and order counts for the trailing window.
// Bucketing happens here rather than in SQL so the series is portable across
// database engines.
func (s *Service) Analytics(ctx context.Context, days int) (*Report, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	end := s.now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(days - 1))

	userTimes, err := s.users.CreatedTimesSince(ctx, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user timestamps")
	}
	orderTimes, err := s.orders.CreatedTimesSince(ctx, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order timestamps")
	}

	userBuckets := bucketByDay(userTimes)
	orderBuckets := bucketByDay(orderTimes)

	series := make([]SeriesPoint, 0, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		series = append(series, SeriesPoint{
			Date:   key,
			Users:  userBuckets[key],
			Orders: orderBuckets[key],
		})
	}

	return &Report{Days: days, Series: series}, nil
}

func bucketByDay(times []time.Time) map[string]int64 {
	buckets := make(map[string]int64, len(times))
	for _, t := range times {
		buckets[t.UTC().Format("2006-01-02")]++
	}
	return buckets
}
