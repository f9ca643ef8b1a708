package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		size     string
		wantPage int
		wantSize int
	}{
		{"both valid", "3", "20", 3, 20},
		{"missing", "", "", 1, 10},
		{"garbage", "abc", "-5", 1, 10},
		{"zero page", "0", "10", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.Size)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 1, Size: 10}.Offset())
	assert.Equal(t, 40, Page{Page: 5, Size: 10}.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(1), TotalPages(5, 0))
}
