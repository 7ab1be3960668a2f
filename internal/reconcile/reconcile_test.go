package reconcile

import (
	"errors"
	"reflect"
	"testing"

	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
)

func cartItems(ids ...int64) []nopapi.CartItem {
	items := make([]nopapi.CartItem, 0, len(ids))
	for i, id := range ids {
		items = append(items, nopapi.CartItem{ID: int64(100 + i), ProductID: id, Quantity: 1})
	}
	return items
}

func TestMissingProducts(t *testing.T) {
	tests := []struct {
		name        string
		cart        []nopapi.CartItem
		wishlist    []nopapi.CartItem
		wantAdd     []int64
		wantPresent int
	}{
		{
			name:     "empty cart",
			cart:     nil,
			wishlist: cartItems(1, 2),
			wantAdd:  nil,
		},
		{
			name:    "empty wishlist gets everything",
			cart:    cartItems(1, 2, 3),
			wantAdd: []int64{1, 2, 3},
		},
		{
			name:        "overlap is skipped and counted",
			cart:        cartItems(1, 2, 3),
			wishlist:    cartItems(2),
			wantAdd:     []int64{1, 3},
			wantPresent: 1,
		},
		{
			name:        "full overlap is a no-op",
			cart:        cartItems(1, 2),
			wishlist:    cartItems(1, 2, 9),
			wantAdd:     nil,
			wantPresent: 2,
		},
		{
			name: "duplicate cart lines collapse",
			cart: []nopapi.CartItem{
				{ID: 100, ProductID: 7, Quantity: 1},
				{ID: 101, ProductID: 7, Quantity: 2},
			},
			wantAdd: []int64{7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sync := MissingProducts(tt.cart, tt.wishlist)
			if !reflect.DeepEqual(sync.ToAdd, tt.wantAdd) {
				t.Errorf("ToAdd = %v, want %v", sync.ToAdd, tt.wantAdd)
			}
			if sync.AlreadyPresent != tt.wantPresent {
				t.Errorf("AlreadyPresent = %d, want %d", sync.AlreadyPresent, tt.wantPresent)
			}
			if sync.IsEmpty() != (len(tt.wantAdd) == 0) {
				t.Errorf("IsEmpty() = %v", sync.IsEmpty())
			}
		})
	}
}

func TestMissingProducts_OrderFollowsCart(t *testing.T) {
	cart := cartItems(5, 3, 9, 1)
	sync := MissingProducts(cart, nil)
	want := []int64{5, 3, 9, 1}
	if !reflect.DeepEqual(sync.ToAdd, want) {
		t.Errorf("ToAdd = %v, want %v", sync.ToAdd, want)
	}
}

func TestReplacementLines(t *testing.T) {
	current := []nopapi.CartItem{
		{ID: 10, ProductID: 1, Quantity: 2},
		{ID: 11, ProductID: 2, Quantity: 1},
		{ID: 12, ProductID: 3, Quantity: 5},
	}

	t.Run("quantity change preserves siblings", func(t *testing.T) {
		lines, err := ReplacementLines(current, 11, 4)
		if err != nil {
			t.Fatal(err)
		}
		want := []nopapi.CartUpdateLine{
			{ID: 10, Quantity: 2},
			{ID: 11, Quantity: 4},
			{ID: 12, Quantity: 5},
		}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("lines = %v, want %v", lines, want)
		}
	})

	t.Run("quantity zero removes the line", func(t *testing.T) {
		lines, err := ReplacementLines(current, 11, 0)
		if err != nil {
			t.Fatal(err)
		}
		want := []nopapi.CartUpdateLine{
			{ID: 10, Quantity: 2},
			{ID: 12, Quantity: 5},
		}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("lines = %v, want %v", lines, want)
		}
	})

	t.Run("unknown item id", func(t *testing.T) {
		_, err := ReplacementLines(current, 999, 1)
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := ReplacementLines(current, 11, -1)
		if !errors.Is(err, model.ErrInvalidQuantity) {
			t.Errorf("want ErrInvalidQuantity, got %v", err)
		}
	})
}
