package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afigueroa/mailprov-backend/pkg/config"
	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

type stubUserCounter struct {
	total   int64
	recent  int64
	created []time.Time
}

func (s stubUserCounter) Count(ctx context.Context) (int64, error) { return s.total, nil }

func (s stubUserCounter) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.recent, nil
}

func (s stubUserCounter) CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return s.created, nil
}

type stubOrderCounter struct {
	total    int64
	byStatus map[enums.OrderStatus]int64
	recent   int64
	created  []time.Time
}

func (s stubOrderCounter) Count(ctx context.Context) (int64, error) { return s.total, nil }

func (s stubOrderCounter) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	return s.byStatus, nil
}

func (s stubOrderCounter) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.recent, nil
}

func (s stubOrderCounter) CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return s.created, nil
}

type stubActivityReader struct {
	rows []models.AdminActivity
}

func (s stubActivityReader) Recent(ctx context.Context, n int) ([]models.AdminActivity, error) {
	return s.rows, nil
}

func TestStatsRevenueEstimate(t *testing.T) {
	svc, err := NewService(
		stubUserCounter{total: 40, recent: 4},
		stubOrderCounter{
			total: 10,
			byStatus: map[enums.OrderStatus]int64{
				enums.OrderStatusPending:   5,
				enums.OrderStatusDelivered: 3,
				enums.OrderStatusFailed:    2,
			},
			recent: 2,
		},
		stubActivityReader{rows: []models.AdminActivity{{AdminID: "admin-1"}}},
		config.PricingConfig{MonthlyPriceCents: 2900, Currency: "USD"},
	)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(40), stats.TotalUsers)
	assert.Equal(t, int64(10), stats.TotalOrders)
	assert.Equal(t, int64(5), stats.PendingOrders)
	assert.Equal(t, int64(3), stats.DeliveredOrders)
	assert.Equal(t, "87.00", stats.RevenueEstimate)
	assert.Equal(t, "USD", stats.Currency)
	assert.Equal(t, int64(4), stats.NewUsers7d)
	assert.Equal(t, int64(2), stats.NewOrders7d)
	require.Len(t, stats.RecentActivity, 1)
}

func TestStatsRevenueFractionalPrice(t *testing.T) {
	svc, err := NewService(
		stubUserCounter{},
		stubOrderCounter{byStatus: map[enums.OrderStatus]int64{enums.OrderStatusDelivered: 7}},
		stubActivityReader{},
		config.PricingConfig{MonthlyPriceCents: 999, Currency: "EUR"},
	)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "69.93", stats.RevenueEstimate)
}

func TestAnalyticsSeriesBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 3, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	svc, err := NewService(
		stubUserCounter{created: []time.Time{day(-2, 1), day(-2, 23), day(0, 9)}},
		stubOrderCounter{created: []time.Time{day(-1, 12)}},
		stubActivityReader{},
		config.PricingConfig{},
	)
	require.NoError(t, err)
	svc.now = func() time.Time { return now }

	report, err := svc.Analytics(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Days)
	require.Len(t, report.Series, 3)

	assert.Equal(t, "2026-03-08", report.Series[0].Date)
	assert.Equal(t, int64(2), report.Series[0].Users)
	assert.Equal(t, int64(0), report.Series[0].Orders)

	assert.Equal(t, "2026-03-09", report.Series[1].Date)
	assert.Equal(t, int64(0), report.Series[1].Users)
	assert.Equal(t, int64(1), report.Series[1].Orders)

	assert.Equal(t, "2026-03-10", report.Series[2].Date)
	assert.Equal(t, int64(1), report.Series[2].Users)
}

func TestAnalyticsClampsWindow(t *testing.T) {
	svc, err := NewService(stubUserCounter{}, stubOrderCounter{}, stubActivityReader{}, config.PricingConfig{})
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }

	report, err := svc.Analytics(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, report.Days)
	assert.Len(t, report.Series, 30)

	report, err = svc.Analytics(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, 365, report.Days)
}
