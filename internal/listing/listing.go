// Package listing derives displayable product and order views from
// in-memory snapshots: filter, search, sort, plus the ephemeral order cart.
// Inputs are never mutated.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stockpilot/stockpilot/internal/catalog"
	"github.com/stockpilot/stockpilot/internal/orders"
)

// ProductFilter narrows a product snapshot. Empty sets pass everything
// for their dimension; search applies after filtering.
type ProductFilter struct {
	Suppliers []string
	Statuses  []string
	Search    string
}

// DeliveryState is the order history tri-state filter.
type DeliveryState string

const (
	DeliveryAll       DeliveryState = "all"
	DeliveryDelivered DeliveryState = "delivered"
	DeliveryPending   DeliveryState = "pending"
)

// OrderSort names the order history sort key.
type OrderSort string

const (
	OrderSortDate  OrderSort = "date"
	OrderSortTotal OrderSort = "total"
)

// OrderFilter narrows an order snapshot.
type OrderFilter struct {
	Delivery DeliveryState
	// Names selects orders with any line referencing one of these
	// product or supplier names. Empty passes everything.
	Names      []string
	SortBy     OrderSort
	Descending bool
}

// FilterProducts returns the filtered, searched subset sorted by product
// name with a locale-aware collation.
func FilterProducts(products []catalog.ProductWithRefs, f ProductFilter) []catalog.ProductWithRefs {
	suppliers := toSet(f.Suppliers)
	statuses := toSet(f.Statuses)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]catalog.ProductWithRefs, 0, len(products))
	for _, p := range products {
		if len(suppliers) > 0 {
			if _, ok := suppliers[p.SupplierName]; !ok {
				continue
			}
		}
		if len(statuses) > 0 {
			if _, ok := statuses[string(p.Product.Status())]; !ok {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SupplierName), search) {
			continue
		}
		out = append(out, p)
	}

	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return coll.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// FilterOrders returns the filtered order subset. lines supplies the
// name references for the per-line name filter, keyed by parent order.
func FilterOrders(list []orders.OrderWithRefs, lines []orders.LineDetail, f OrderFilter) []orders.OrderWithRefs {
	names := toSet(f.Names)
	byOrder := make(map[int64][]orders.LineDetail, len(list))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}

	out := make([]orders.OrderWithRefs, 0, len(list))
	for _, o := range list {
		switch f.Delivery {
		case DeliveryDelivered:
			if o.DeliveredAt == nil {
				continue
			}
		case DeliveryPending:
			if o.DeliveredAt != nil {
				continue
			}
		}
		if len(names) > 0 && !anyLineNamed(byOrder[o.ID], names) {
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		if f.SortBy == OrderSortTotal {
			less = out[i].TotalAmount < out[j].TotalAmount
		} else {
			less = out[i].OrderDate.Before(out[j].OrderDate)
		}
		if f.Descending {
			return !less && !equalKey(out[i], out[j], f.SortBy)
		}
		return less
	})
	return out
}

func anyLineNamed(lines []orders.LineDetail, names map[string]struct{}) bool {
	for _, l := range lines {
		if _, ok := names[l.ProductName]; ok {
			return true
		}
		if _, ok := names[l.SupplierName]; ok {
			return true
		}
	}
	return false
}

func equalKey(a, b orders.OrderWithRefs, key OrderSort) bool {
	if key == OrderSortTotal {
		return a.TotalAmount == b.TotalAmount
	}
	return a.OrderDate.Equal(b.OrderDate)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
