package models

import (
	"math"
	"testing"
)

func TestNewPaginationMetadata(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		size      int
		page      int
		wantPages int
	}{
		{"empty", 0, 10, 1, 0},
		{"exact fit", 20, 10, 1, 2},
		{"partial last page", 21, 10, 3, 3},
		{"single item", 1, 50, 1, 1},
		{"zero page size", 5, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPaginationMetadata(tt.total, tt.size, tt.page)
			if m.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", m.TotalPages, tt.wantPages)
			}
			if m.TotalItemCount != tt.total {
				t.Errorf("TotalItemCount = %d, want %d", m.TotalItemCount, tt.total)
			}
			if m.CurrentPage != tt.page {
				t.Errorf("CurrentPage = %d, want %d", m.CurrentPage, tt.page)
			}
		})
	}
}

func TestPaginationMetadata_Offset(t *testing.T) {
	if got := NewPaginationMetadata(100, 10, 3).Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
	if got := NewPaginationMetadata(100, 10, 0).Offset(); got != 0 {
		t.Errorf("Offset() for page 0 = %d, want 0", got)
	}
	if got := NewPaginationMetadata(2, 10, math.MaxInt).Offset(); got != math.MaxInt {
		t.Errorf("Offset() for last int page = %d, want saturation at %d", got, math.MaxInt)
	}
	if got := NewPaginationMetadata(2, 50, math.MaxInt/50+2).Offset(); got != math.MaxInt {
		t.Errorf("Offset() past int range = %d, want %d", got, math.MaxInt)
	}
}

func TestContact_FullName(t *testing.T) {
	c := Contact{FirstName: "Jan", LastName: "Kowalski"}
	if got := c.FullName(); got != "Jan Kowalski" {
		t.Errorf("FullName() = %q, want %q", got, "Jan Kowalski")
	}
}
