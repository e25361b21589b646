package helpers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oussamab/maktaba/internal/pkg/helpers"
)

func Test_CalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		wantOffset uint64
		wantLimit  int
	}{
		{name: "first_page", page: 1, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "third_page", page: 3, size: 10, wantOffset: 20, wantLimit: 10},
		{name: "zero_page_defaults_to_first", page: 0, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "zero_size_uses_default", page: 2, size: 0, wantOffset: 10, wantLimit: helpers.DefaultPageSize},
		{name: "oversized_page_size_capped", page: 1, size: 500, wantOffset: 0, wantLimit: helpers.DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := helpers.CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func Test_NewPaginationInfo(t *testing.T) {
	t.Run("full_pages", func(t *testing.T) {
		info := helpers.NewPaginationInfo(25, 2, 10)
		assert.Equal(t, 2, info.CurrentPage)
		assert.Equal(t, 3, info.TotalPages)
		assert.Equal(t, 10, info.PageSize)
		assert.Equal(t, int64(25), info.TotalItems)
	})

	t.Run("empty_result_still_has_one_page", func(t *testing.T) {
		info := helpers.NewPaginationInfo(0, 1, 10)
		assert.Equal(t, 1, info.CurrentPage)
		assert.Equal(t, 1, info.TotalPages)
	})

	t.Run("page_beyond_last_is_clamped", func(t *testing.T) {
		info := helpers.NewPaginationInfo(15, 9, 10)
		assert.Equal(t, 2, info.CurrentPage)
		assert.Equal(t, 2, info.TotalPages)
	})
}

func Test_ParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{name: "defaults", query: "", wantPage: 1, wantSize: 10},
		{name: "explicit_values", query: "?page=3&size=25", wantPage: 3, wantSize: 25},
		{name: "garbage_falls_back", query: "?page=abc&size=xyz", wantPage: 1, wantSize: 10},
		{name: "negative_values_fall_back", query: "?page=-1&size=-5", wantPage: 1, wantSize: 10},
		{name: "oversized_size_falls_back", query: "?size=1000", wantPage: 1, wantSize: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/books"+tt.query, nil)

			page, size := helpers.ParsePaginationParams(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}
