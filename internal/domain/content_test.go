package domain

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentVisible(t *testing.T) {
	published := &Content{ID: 1, AuthorID: 10, Status: StatusPublished}
	inReview := &Content{ID: 2, AuthorID: 10, Status: StatusReview}
	flagged := &Content{ID: 3, AuthorID: 10, Status: StatusPublished, IsFlagged: true}
	rejected := &Content{ID: 4, AuthorID: 10, Status: StatusRejected}

	anon := Viewer{}
	user := Viewer{ID: 5, Role: RoleUser}
	author := Viewer{ID: 10, Role: RoleTechWriter}
	otherWriter := Viewer{ID: 11, Role: RoleTechWriter}
	admin := Viewer{ID: 1, Role: RoleAdmin}

	cases := []struct {
		name   string
		viewer Viewer
		c      *Content
		want   bool
	}{
		{"anon sees published", anon, published, true},
		{"anon hidden review", anon, inReview, false},
		{"anon hidden flagged", anon, flagged, false},
		{"user sees published", user, published, true},
		{"user hidden review", user, inReview, false},
		{"user hidden rejected", user, rejected, false},
		{"author writer sees own review", author, inReview, true},
		{"author writer sees own flagged", author, flagged, true},
		{"other writer hidden review", otherWriter, inReview, false},
		{"other writer sees published", otherWriter, published, true},
		{"admin sees review", admin, inReview, true},
		{"admin sees flagged", admin, flagged, true},
		{"admin sees rejected", admin, rejected, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ContentVisible(tc.viewer, tc.c))
		})
	}
}

func TestContentLessOrdering(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := func(d int) *time.Time { v := t0.AddDate(0, 0, d); return &v }

	older := Content{ID: 1, Status: StatusPublished, PublishedAt: ts(1), CreatedAt: t0}
	newer := Content{ID: 2, Status: StatusPublished, PublishedAt: ts(5), CreatedAt: t0}
	unpublished := Content{ID: 3, Status: StatusReview, CreatedAt: t0.AddDate(0, 0, 9)}
	unpublishedOld := Content{ID: 4, Status: StatusReview, CreatedAt: t0.AddDate(0, 0, 2)}

	items := []Content{older, unpublishedOld, newer, unpublished}
	less := ContentLess(Viewer{Role: RoleUser})
	sort.SliceStable(items, func(i, j int) bool { return less(&items[i], &items[j]) })

	ids := []uint{items[0].ID, items[1].ID, items[2].ID, items[3].ID}
	// 已发布按发布时间倒序在前，未发布按创建时间倒序垫后
	assert.Equal(t, []uint{2, 1, 3, 4}, ids)
}

func TestContentLessAdminRanksApprovedFirst(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pub := t0.AddDate(0, 0, 3)

	published := Content{ID: 1, Status: StatusPublished, PublishedAt: &pub, CreatedAt: t0}
	approved := Content{ID: 2, Status: StatusApproved, CreatedAt: t0}

	items := []Content{published, approved}
	less := ContentLess(Viewer{Role: RoleAdmin})
	sort.SliceStable(items, func(i, j int) bool { return less(&items[i], &items[j]) })

	// 管理视图里待发布的 approved 排到最前
	assert.Equal(t, uint(2), items[0].ID)

	less = ContentLess(Viewer{Role: RoleUser})
	items = []Content{approved, published}
	sort.SliceStable(items, func(i, j int) bool { return less(&items[i], &items[j]) })
	assert.Equal(t, uint(1), items[0].ID)
}
