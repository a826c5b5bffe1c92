package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

const (
	// DefaultTopLimit is used when the caller supplies no limit.
	DefaultTopLimit = 5

	minYear = 2000
	maxYear = 2100
)

// Service computes report summaries from order history. It is pure
// read-and-compute: no persisted entity is mutated.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a Service instance. cache may be nil.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Summary builds the full report summary. The two source queries run
// concurrently; any fetch failure aborts the whole computation and no
// partial result is returned.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "summary")
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		return s.buildSummary(ctx)
	})
	return summary, err
}

func (s *Service) buildSummary(ctx context.Context) (Summary, error) {
	var (
		lines    []DeliveredLine
		products []StockedProduct
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = s.repo.DeliveredLines(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.repo.StockedProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	groups := groupLines(lines)
	valuation, total := valuate(products, lines)

	return Summary{
		TopByFrequency: topBy(groups, DefaultTopLimit, func(p TopProduct) float64 { return float64(p.Count) }),
		TopByQuantity:  topBy(groups, DefaultTopLimit, func(p TopProduct) float64 { return float64(p.Quantity) }),
		TopByValue:     topBy(groups, DefaultTopLimit, func(p TopProduct) float64 { return p.Value }),
		Valuation:      valuation,
		TotalValue:     total,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// MonthlyTopProducts ranks products by line-item frequency within the
// half-open window [start of month, start of next month), independent of
// delivery status.
func (s *Service) MonthlyTopProducts(ctx context.Context, year, month, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", httpx.ErrValidation)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", httpx.ErrValidation)
	}
	if year < minYear || year > maxYear {
		return nil, fmt.Errorf("%w: year must be %d-%d", httpx.ErrValidation, minYear, maxYear)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	lines, err := s.repo.LinesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	deliveredShape := make([]DeliveredLine, 0, len(lines))
	for _, l := range lines {
		deliveredShape = append(deliveredShape, DeliveredLine{ProductID: l.ProductID, ProductName: l.ProductName})
	}
	groups := groupLines(deliveredShape)
	return topBy(groups, limit, func(p TopProduct) float64 { return float64(p.Count) }), nil
}

// WarmSummary primes the summary cache; used by the background worker.
func (s *Service) WarmSummary(ctx context.Context) error {
	_, err := s.Summary(ctx)
	return err
}

// groupLines folds lines into per-product totals, preserving first-seen
// order so equal metrics keep a stable ranking.
func groupLines(lines []DeliveredLine) []TopProduct {
	index := make(map[int64]int, len(lines))
	var groups []TopProduct
	for _, l := range lines {
		i, ok := index[l.ProductID]
		if !ok {
			i = len(groups)
			index[l.ProductID] = i
			groups = append(groups, TopProduct{ProductID: l.ProductID, Name: l.ProductName})
		}
		groups[i].Count++
		groups[i].Quantity += l.Quantity
		groups[i].Value += float64(l.Quantity) * l.UnitPrice
	}
	return groups
}

func topBy(groups []TopProduct, limit int, metric func(TopProduct) float64) []TopProduct {
	ranked := append([]TopProduct(nil), groups...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metric(ranked[i]) > metric(ranked[j])
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// valuate prices each stocked product at the unit price of its most recent
// delivered line. A product without delivered history contributes zero.
func valuate(products []StockedProduct, lines []DeliveredLine) ([]ValuationItem, float64) {
	type latest struct {
		at    time.Time
		price float64
	}
	latestCost := make(map[int64]latest, len(products))
	for _, l := range lines {
		cur, ok := latestCost[l.ProductID]
		if !ok || l.DeliveredAt.After(cur.at) {
			latestCost[l.ProductID] = latest{at: l.DeliveredAt, price: l.UnitPrice}
		}
	}

	items := make([]ValuationItem, 0, len(products))
	var total float64
	for _, p := range products {
		item := ValuationItem{ProductID: p.ID, Name: p.Name, Stock: p.Stock}
		if cost, ok := latestCost[p.ID]; ok {
			item.LatestCost = cost.price
			item.Value = float64(p.Stock) * cost.price
		}
		total += item.Value
		items = append(items, item)
	}
	return items, total
}
