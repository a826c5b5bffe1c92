package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

type stubRepo struct {
	lines        []DeliveredLine
	linesErr     error
	products     []StockedProduct
	productsErr  error
	monthLines   []MonthLine
	monthErr     error
	monthFrom    time.Time
	monthTo      time.Time
	deliveredCnt int
}

func (s *stubRepo) DeliveredLines(ctx context.Context) ([]DeliveredLine, error) {
	s.deliveredCnt++
	return s.lines, s.linesErr
}

func (s *stubRepo) StockedProducts(ctx context.Context) ([]StockedProduct, error) {
	return s.products, s.productsErr
}

func (s *stubRepo) LinesInRange(ctx context.Context, from, to time.Time) ([]MonthLine, error) {
	s.monthFrom, s.monthTo = from, to
	return s.monthLines, s.monthErr
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestSummaryRankings(t *testing.T) {
	repo := &stubRepo{
		lines: []DeliveredLine{
			{ProductID: 1, ProductName: "Arabica Beans", Quantity: 3, UnitPrice: 10, DeliveredAt: day(1)},
			{ProductID: 2, ProductName: "Burlap Sacks", Quantity: 50, UnitPrice: 1, DeliveredAt: day(2)},
			{ProductID: 1, ProductName: "Arabica Beans", Quantity: 2, UnitPrice: 12, DeliveredAt: day(3)},
			{ProductID: 3, ProductName: "Cup Lids", Quantity: 1, UnitPrice: 100, DeliveredAt: day(4)},
		},
	}
	svc := NewService(repo, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	// Frequency counts line occurrences, not quantity.
	require.Equal(t, "Arabica Beans", summary.TopByFrequency[0].Name)
	require.Equal(t, 2, summary.TopByFrequency[0].Count)

	require.Equal(t, "Burlap Sacks", summary.TopByQuantity[0].Name)
	require.Equal(t, 50, summary.TopByQuantity[0].Quantity)

	require.Equal(t, "Cup Lids", summary.TopByValue[0].Name)
	require.InDelta(t, 100.0, summary.TopByValue[0].Value, 1e-9)

	for _, list := range [][]TopProduct{summary.TopByFrequency, summary.TopByQuantity, summary.TopByValue} {
		require.LessOrEqual(t, len(list), DefaultTopLimit)
	}
}

func TestSummaryTopListsNonIncreasing(t *testing.T) {
	repo := &stubRepo{}
	for i := 0; i < 8; i++ {
		for j := 0; j <= i; j++ {
			repo.lines = append(repo.lines, DeliveredLine{
				ProductID:   int64(i + 1),
				ProductName: "P",
				Quantity:    i + 1,
				UnitPrice:   float64(8 - i),
				DeliveredAt: day(1),
			})
		}
	}
	svc := NewService(repo, nil)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.TopByFrequency, DefaultTopLimit)
	for i := 1; i < len(summary.TopByFrequency); i++ {
		require.GreaterOrEqual(t, summary.TopByFrequency[i-1].Count, summary.TopByFrequency[i].Count)
	}
	for i := 1; i < len(summary.TopByQuantity); i++ {
		require.GreaterOrEqual(t, summary.TopByQuantity[i-1].Quantity, summary.TopByQuantity[i].Quantity)
	}
	for i := 1; i < len(summary.TopByValue); i++ {
		require.GreaterOrEqual(t, summary.TopByValue[i-1].Value, summary.TopByValue[i].Value)
	}
}

func TestValuationUsesLatestDeliveredCost(t *testing.T) {
	repo := &stubRepo{
		lines: []DeliveredLine{
			{ProductID: 1, ProductName: "Arabica Beans", Quantity: 5, UnitPrice: 9, DeliveredAt: day(1)},
			{ProductID: 1, ProductName: "Arabica Beans", Quantity: 5, UnitPrice: 11, DeliveredAt: day(20)},
			{ProductID: 1, ProductName: "Arabica Beans", Quantity: 5, UnitPrice: 10, DeliveredAt: day(10)},
		},
		products: []StockedProduct{
			{ID: 1, Name: "Arabica Beans", Stock: 4},
			{ID: 2, Name: "Never Purchased", Stock: 7},
		},
	}
	svc := NewService(repo, nil)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Valuation, 2)
	require.InDelta(t, 44.0, summary.Valuation[0].Value, 1e-9)
	// No delivered history contributes exactly zero, never NaN.
	require.Equal(t, 0.0, summary.Valuation[1].Value)
	require.Equal(t, 0.0, summary.Valuation[1].LatestCost)
	require.InDelta(t, 44.0, summary.TotalValue, 1e-9)
}

func TestSummaryAbortsOnFetchFailure(t *testing.T) {
	repo := &stubRepo{
		productsErr: errors.New("relation products does not exist"),
		lines:       []DeliveredLine{{ProductID: 1, ProductName: "A", Quantity: 1, UnitPrice: 1, DeliveredAt: day(1)}},
	}
	svc := NewService(repo, nil)
	_, err := svc.Summary(context.Background())
	require.Error(t, err)
}

func TestMonthlyTopProducts(t *testing.T) {
	repo := &stubRepo{
		monthLines: []MonthLine{
			{ProductID: 1, ProductName: "A"},
			{ProductID: 2, ProductName: "B"},
			{ProductID: 1, ProductName: "A"},
		},
	}
	svc := NewService(repo, nil)

	products, err := svc.MonthlyTopProducts(context.Background(), 2026, 3, 5)
	require.NoError(t, err)
	require.Equal(t, []TopProduct{
		{ProductID: 1, Name: "A", Count: 2},
		{ProductID: 2, Name: "B", Count: 1},
	}, products)

	// Half-open month window.
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), repo.monthFrom)
	require.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), repo.monthTo)
}

func TestMonthlyTopProductsValidation(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	_, err := svc.MonthlyTopProducts(context.Background(), 2026, 0, 5)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.MonthlyTopProducts(context.Background(), 2026, 13, 5)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.MonthlyTopProducts(context.Background(), 1900, 3, 5)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.MonthlyTopProducts(context.Background(), 2026, 3, 0)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.MonthlyTopProducts(context.Background(), 2026, 3, -1)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSummaryCachesAndBumpInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := NewCache(client, time.Minute)

	repo := &stubRepo{
		lines: []DeliveredLine{{ProductID: 1, ProductName: "A", Quantity: 1, UnitPrice: 2, DeliveredAt: day(1)}},
	}
	svc := NewService(repo, cache)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.deliveredCnt)

	require.NoError(t, cache.Bump(context.Background()))
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.deliveredCnt)
}
