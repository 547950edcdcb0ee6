package memory

import (
	"sort"
	"time"

	"techshare/internal/domain"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.categories {
		if e.Name == c.Name {
			return domain.Conflict("category already exists")
		}
	}
	c.ID = r.s.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *categoryRepo) FindByID(id uint) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *categoryRepo) FindByName(name string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) List(offset, limit int) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Category
	for _, c := range r.s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, offset, limit), nil
}

func (r *categoryRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	for p := range r.s.subscriptions {
		if p.B == id {
			delete(r.s.subscriptions, p)
		}
	}
	return nil
}

func (r *categoryRepo) Subscribe(userID, categoryID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := pair{userID, categoryID}
	if _, ok := r.s.subscriptions[p]; ok {
		return false, nil
	}
	r.s.subscriptions[p] = struct{}{}
	return true, nil
}

func (r *categoryRepo) Unsubscribe(userID, categoryID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := pair{userID, categoryID}
	if _, ok := r.s.subscriptions[p]; !ok {
		return false, nil
	}
	delete(r.s.subscriptions, p)
	return true, nil
}

func (r *categoryRepo) Subscribers(categoryID uint) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.User
	for p := range r.s.subscriptions {
		if p.B == categoryID {
			if u, ok := r.s.users[p.A]; ok {
				out = append(out, *u)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categoryRepo) SubscribedCategories(userID uint) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Category
	for p := range r.s.subscriptions {
		if p.A == userID {
			if c, ok := r.s.categories[p.B]; ok {
				out = append(out, *c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
