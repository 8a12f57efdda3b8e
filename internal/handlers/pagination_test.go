package handlers

import "testing"

func TestBuildPaginationMeta(t *testing.T) {
	cases := []struct {
		page, limit, total int
		wantPages          int
	}{
		{1, 10, 0, 0},
		{1, 10, 1, 1},
		{1, 10, 10, 1},
		{2, 10, 11, 2},
		{3, 5, 23, 5},
	}
	for _, tc := range cases {
		meta := buildPaginationMeta(tc.page, tc.limit, tc.total)
		if meta.TotalPages != tc.wantPages {
			t.Errorf("buildPaginationMeta(%d, %d, %d).TotalPages = %d, want %d",
				tc.page, tc.limit, tc.total, meta.TotalPages, tc.wantPages)
		}
		if meta.Page != tc.page || meta.Limit != tc.limit || meta.Total != tc.total {
			t.Errorf("unexpected meta passthrough: %+v", meta)
		}
	}
}
