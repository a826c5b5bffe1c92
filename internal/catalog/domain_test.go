package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductStatus(t *testing.T) {
	cases := []struct {
		name  string
		stock int
		min   int
		want  StockStatus
	}{
		{"below minimum", 5, 10, StockStatusLow},
		{"zero stock", 0, 10, StockStatusOut},
		{"zero stock zero min", 0, 0, StockStatusOut},
		{"negative stock", -3, 10, StockStatusOut},
		{"at minimum", 10, 10, StockStatusIn},
		{"above minimum", 25, 10, StockStatusIn},
		{"positive stock zero min", 1, 0, StockStatusIn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Stock: tc.stock, MinQuantity: tc.min}
			require.Equal(t, tc.want, p.Status())
		})
	}
}

func TestRestockQuantity(t *testing.T) {
	require.Equal(t, 5, Product{Stock: 5, MinQuantity: 10}.RestockQuantity())
	require.Equal(t, 0, Product{Stock: 12, MinQuantity: 10}.RestockQuantity())
	require.True(t, Product{Stock: 5, MinQuantity: 10}.NeedsRestock())
	require.False(t, Product{Stock: 10, MinQuantity: 10}.NeedsRestock())
}
