package memory

import (
	"sort"
	"time"

	"techshare/internal/domain"
)

type flagRepo struct{ s *Store }

func (r *flagRepo) Create(f *domain.ContentFlag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.ID = r.s.nextID()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	cp := *f
	r.s.flags[f.ID] = &cp
	return nil
}

func (r *flagRepo) FindByID(id uint) (*domain.ContentFlag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if f, ok := r.s.flags[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *flagRepo) FindUnresolved(contentID, flaggerID uint) (*domain.ContentFlag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, f := range r.s.flags {
		if f.ContentID == contentID && f.FlaggerID == flaggerID && !f.IsResolved {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *flagRepo) List(filter domain.FlagFilter) ([]domain.ContentFlag, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ContentFlag
	for _, f := range r.s.flags {
		if filter.Resolved != nil && f.IsResolved != *filter.Resolved {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	return window(out, filter.Offset, filter.Limit), total, nil
}

func (r *flagRepo) ListUnresolvedByContent(contentID uint) ([]domain.ContentFlag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ContentFlag
	for _, f := range r.s.flags {
		if f.ContentID == contentID && !f.IsResolved {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *flagRepo) Update(f *domain.ContentFlag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.flags[f.ID]; !ok {
		return domain.NotFound("flag not found")
	}
	cp := *f
	r.s.flags[f.ID] = &cp
	return nil
}

func (r *flagRepo) CountUnresolved(contentID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, f := range r.s.flags {
		if f.ContentID == contentID && !f.IsResolved {
			n++
		}
	}
	return n, nil
}
