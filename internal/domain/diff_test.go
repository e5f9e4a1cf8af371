package domain_test

import (
	"reflect"
	"testing"

	"staybook/internal/domain"
)

func TestDiffIDs(t *testing.T) {
	cases := []struct {
		name            string
		current, target []int64
		add, remove     []int64
	}{
		{"disjoint", []int64{1, 2}, []int64{3, 4}, []int64{3, 4}, []int64{1, 2}},
		{"overlap", []int64{1, 2, 3}, []int64{2, 3, 4}, []int64{4}, []int64{1}},
		{"identical", []int64{1, 2}, []int64{1, 2}, nil, nil},
		{"empty target", []int64{1, 2}, nil, nil, []int64{1, 2}},
		{"empty current", nil, []int64{5}, []int64{5}, nil},
		{"duplicate target ids collapse", []int64{1}, []int64{2, 2, 1}, []int64{2}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			add, remove := domain.DiffIDs(tc.current, tc.target)
			if !reflect.DeepEqual(add, tc.add) {
				t.Fatalf("add = %v, want %v", add, tc.add)
			}
			if !reflect.DeepEqual(remove, tc.remove) {
				t.Fatalf("remove = %v, want %v", remove, tc.remove)
			}
		})
	}
}

func TestDiffIDs_Reapply(t *testing.T) {
	// applying the target twice yields an empty diff the second time
	current := []int64{1, 2, 3}
	target := []int64{2, 4}

	add, remove := domain.DiffIDs(current, target)
	next := map[int64]struct{}{}
	for _, id := range current {
		next[id] = struct{}{}
	}
	for _, id := range add {
		next[id] = struct{}{}
	}
	for _, id := range remove {
		delete(next, id)
	}
	var applied []int64
	for id := range next {
		applied = append(applied, id)
	}

	add2, remove2 := domain.DiffIDs(applied, target)
	if len(add2) != 0 || len(remove2) != 0 {
		t.Fatalf("second diff not empty: add=%v remove=%v", add2, remove2)
	}
}

func TestPageQueryOffset(t *testing.T) {
	if got := (domain.PageQuery{Page: 1, PerPage: 10}).Offset(); got != 0 {
		t.Fatalf("offset = %d, want 0", got)
	}
	if got := (domain.PageQuery{Page: 3, PerPage: 25}).Offset(); got != 50 {
		t.Fatalf("offset = %d, want 50", got)
	}
	if got := (domain.PageQuery{Page: 0, PerPage: 10}).Offset(); got != 0 {
		t.Fatalf("offset = %d, want 0", got)
	}
}
