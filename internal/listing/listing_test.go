package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/catalog"
	"github.com/stockpilot/stockpilot/internal/orders"
)

func productFixture() []catalog.ProductWithRefs {
	mk := func(id int64, name, supplier string, stock, min int) catalog.ProductWithRefs {
		p := catalog.Product{ID: id, Name: name, Stock: stock, MinQuantity: min}
		return catalog.ProductWithRefs{Product: p, SupplierName: supplier, Status: p.Status()}
	}
	return []catalog.ProductWithRefs{
		mk(1, "Zucchini", "Greenfields", 20, 5),
		mk(2, "Apples", "Greenfields", 2, 5),
		mk(3, "Butter", "Dairyland", 0, 3),
		mk(4, "almonds", "Nutco", 8, 4),
	}
}

func TestFilterProductsEmptyFilterPassesAll(t *testing.T) {
	got := FilterProducts(productFixture(), ProductFilter{})
	require.Len(t, got, 4)
}

func TestFilterProductsBySupplierAndStatus(t *testing.T) {
	products := productFixture()

	bySupplier := FilterProducts(products, ProductFilter{Suppliers: []string{"Greenfields"}})
	require.Len(t, bySupplier, 2)
	for _, p := range bySupplier {
		require.Equal(t, "Greenfields", p.SupplierName)
	}

	low := FilterProducts(products, ProductFilter{Statuses: []string{string(catalog.StockStatusLow)}})
	require.Len(t, low, 1)
	require.Equal(t, "Apples", low[0].Name)

	both := FilterProducts(products, ProductFilter{
		Suppliers: []string{"Greenfields"},
		Statuses:  []string{string(catalog.StockStatusOut)},
	})
	require.Empty(t, both)
}

func TestFilterProductsSearchAppliesAfterFilter(t *testing.T) {
	products := productFixture()

	// "a" matches every product name or supplier, but the supplier
	// filter has already narrowed the set.
	got := FilterProducts(products, ProductFilter{
		Suppliers: []string{"Dairyland"},
		Search:    "BUT",
	})
	require.Len(t, got, 1)
	require.Equal(t, "Butter", got[0].Name)

	none := FilterProducts(products, ProductFilter{
		Suppliers: []string{"Dairyland"},
		Search:    "zucchini",
	})
	require.Empty(t, none)
}

func TestFilterProductsSortIsCaseInsensitive(t *testing.T) {
	got := FilterProducts(productFixture(), ProductFilter{})
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	require.Equal(t, []string{"almonds", "Apples", "Butter", "Zucchini"}, names)
}

func orderFixture() ([]orders.OrderWithRefs, []orders.LineDetail) {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}
	delivered := day(10)
	list := []orders.OrderWithRefs{
		{Order: orders.Order{ID: 1, OrderDate: day(1), TotalAmount: 300, DeliveredAt: &delivered}},
		{Order: orders.Order{ID: 2, OrderDate: day(5), TotalAmount: 100}},
		{Order: orders.Order{ID: 3, OrderDate: day(3), TotalAmount: 200}},
	}
	lines := []orders.LineDetail{
		{OrderLine: orders.OrderLine{OrderID: 1, ProductID: 10}, ProductName: "Apples", SupplierName: "Greenfields"},
		{OrderLine: orders.OrderLine{OrderID: 2, ProductID: 11}, ProductName: "Butter", SupplierName: "Dairyland"},
		{OrderLine: orders.OrderLine{OrderID: 3, ProductID: 10}, ProductName: "Apples", SupplierName: "Greenfields"},
	}
	return list, lines
}

func TestFilterOrdersDeliveryStates(t *testing.T) {
	list, lines := orderFixture()

	all := FilterOrders(list, lines, OrderFilter{Delivery: DeliveryAll})
	require.Len(t, all, 3)

	delivered := FilterOrders(list, lines, OrderFilter{Delivery: DeliveryDelivered})
	require.Len(t, delivered, 1)
	require.Equal(t, int64(1), delivered[0].ID)

	pending := FilterOrders(list, lines, OrderFilter{Delivery: DeliveryPending})
	require.Len(t, pending, 2)
}

func TestFilterOrdersByLineNames(t *testing.T) {
	list, lines := orderFixture()

	byProduct := FilterOrders(list, lines, OrderFilter{Names: []string{"Apples"}})
	require.Len(t, byProduct, 2)

	bySupplier := FilterOrders(list, lines, OrderFilter{Names: []string{"Dairyland"}})
	require.Len(t, bySupplier, 1)
	require.Equal(t, int64(2), bySupplier[0].ID)
}

func TestFilterOrdersSort(t *testing.T) {
	list, lines := orderFixture()

	byDate := FilterOrders(list, lines, OrderFilter{SortBy: OrderSortDate})
	require.Equal(t, []int64{1, 3, 2}, orderIDs(byDate))

	byDateDesc := FilterOrders(list, lines, OrderFilter{SortBy: OrderSortDate, Descending: true})
	require.Equal(t, []int64{2, 3, 1}, orderIDs(byDateDesc))

	byTotal := FilterOrders(list, lines, OrderFilter{SortBy: OrderSortTotal})
	require.Equal(t, []int64{2, 3, 1}, orderIDs(byTotal))

	byTotalDesc := FilterOrders(list, lines, OrderFilter{SortBy: OrderSortTotal, Descending: true})
	require.Equal(t, []int64{1, 3, 2}, orderIDs(byTotalDesc))
}

func TestFilterOrdersDoesNotMutateInput(t *testing.T) {
	list, lines := orderFixture()
	_ = FilterOrders(list, lines, OrderFilter{SortBy: OrderSortTotal, Descending: true})
	require.Equal(t, []int64{1, 2, 3}, orderIDs(list))
}

func orderIDs(list []orders.OrderWithRefs) []int64 {
	ids := make([]int64, len(list))
	for i, o := range list {
		ids[i] = o.ID
	}
	return ids
}
