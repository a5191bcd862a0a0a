package domain

import "testing"

func TestOrderableTaskColumn(t *testing.T) {
	for _, col := range []string{"title", "status", "priority", "due_date", "created_at", "updated_at"} {
		if !OrderableTaskColumn(col) {
			t.Errorf("expected %q to be orderable", col)
		}
	}
	for _, col := range []string{"", "id", "user_id", "description", "password_hash; DROP TABLE"} {
		if OrderableTaskColumn(col) {
			t.Errorf("expected %q to be rejected", col)
		}
	}
}

func TestTaskPagePagination(t *testing.T) {
	cases := []struct {
		total, page      int
		hasNext, hasPrev bool
	}{
		{0, 1, false, false},
		{10, 1, false, false},
		{11, 1, true, false},
		{15, 1, true, false},
		{15, 2, false, true},
		{30, 2, true, true},
		{30, 3, false, true},
	}
	for _, c := range cases {
		p := TaskPage{Total: c.total, Page: c.page}
		if got := p.HasNext(); got != c.hasNext {
			t.Errorf("total=%d page=%d: HasNext() = %v, want %v", c.total, c.page, got, c.hasNext)
		}
		if got := p.HasPrevious(); got != c.hasPrev {
			t.Errorf("total=%d page=%d: HasPrevious() = %v, want %v", c.total, c.page, got, c.hasPrev)
		}
	}
}
