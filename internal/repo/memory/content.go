package memory

import (
	"sort"
	"time"

	"techshare/internal/domain"
)

type contentRepo struct{ s *Store }

func (r *contentRepo) Create(c *domain.Content) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	r.s.contents[c.ID] = &cp
	return nil
}

func (r *contentRepo) FindByID(id uint) (*domain.Content, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.contents[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// List 复用 domain 的纯可见性/排序规则，与 SQL 实现同一套语义
func (r *contentRepo) List(f domain.ContentFilter) ([]domain.Content, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*domain.Content
	for _, c := range r.s.contents {
		if !domain.ContentVisible(f.Viewer, c) {
			continue
		}
		if f.CategoryID != 0 && c.CategoryID != f.CategoryID {
			continue
		}
		if len(f.CategoryIDs) > 0 && !containsID(f.CategoryIDs, c.CategoryID) {
			continue
		}
		if f.AuthorID != 0 && c.AuthorID != f.AuthorID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		all = append(all, c)
	}
	less := domain.ContentLess(f.Viewer)
	sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })

	out := make([]domain.Content, 0, len(all))
	for _, c := range all {
		out = append(out, *c)
	}
	total := int64(len(out))
	return window(out, f.Offset, f.Limit), total, nil
}

func (r *contentRepo) Update(c *domain.Content) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contents[c.ID]; !ok {
		return domain.NotFound("content not found")
	}
	cp := *c
	r.s.contents[c.ID] = &cp
	return nil
}

func (r *contentRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.contents, id)
	return nil
}

func (r *contentRepo) IncrementViews(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.contents[id]; ok {
		c.ViewsCount++
	}
	return nil
}

func (r *contentRepo) CountByCategory(categoryID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.contents {
		if c.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
