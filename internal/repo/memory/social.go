package memory

import (
	"sort"
	"time"

	"techshare/internal/domain"
)

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(c *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	r.s.comments[c.ID] = &cp
	return nil
}

func (r *commentRepo) FindByID(id uint) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *commentRepo) ListByContent(contentID uint) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Comment
	for _, c := range r.s.comments {
		if c.ContentID == contentID {
			out = append(out, *c)
		}
	}
	sortComments(out)
	return out, nil
}

func (r *commentRepo) ListReplies(parentID uint) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Comment
	for _, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	sortComments(out)
	return out, nil
}

func (r *commentRepo) Update(c *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[c.ID]; !ok {
		return domain.NotFound("comment not found")
	}
	cp := *c
	r.s.comments[c.ID] = &cp
	return nil
}

func (r *commentRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doomed := map[uint]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, c := range r.s.comments {
			if c.ParentID != nil && doomed[*c.ParentID] && !doomed[c.ID] {
				doomed[c.ID] = true
				changed = true
			}
		}
	}
	for cid := range doomed {
		delete(r.s.comments, cid)
		for lid, l := range r.s.commentLikes {
			if l.CommentID == cid {
				delete(r.s.commentLikes, lid)
			}
		}
	}
	return nil
}

func (r *commentRepo) DeleteByContent(contentID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.comments {
		if c.ContentID == contentID {
			delete(r.s.comments, id)
			for lid, l := range r.s.commentLikes {
				if l.CommentID == id {
					delete(r.s.commentLikes, lid)
				}
			}
		}
	}
	return nil
}

func (r *commentRepo) CountByContent(contentID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.comments {
		if c.ContentID == contentID {
			n++
		}
	}
	return n, nil
}

func sortComments(cs []domain.Comment) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}

type commentLikeRepo struct{ s *Store }

func (r *commentLikeRepo) Find(userID, commentID uint) (*domain.CommentLike, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.commentLikes {
		if l.UserID == userID && l.CommentID == commentID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *commentLikeRepo) Create(l *domain.CommentLike) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.commentLikes {
		if e.UserID == l.UserID && e.CommentID == l.CommentID {
			return domain.Conflict("comment already liked")
		}
	}
	l.ID = r.s.nextID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	cp := *l
	r.s.commentLikes[l.ID] = &cp
	return nil
}

func (r *commentLikeRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.commentLikes, id)
	return nil
}

func (r *commentLikeRepo) CountByComment(commentID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, l := range r.s.commentLikes {
		if l.CommentID == commentID {
			n++
		}
	}
	return n, nil
}

func (r *commentLikeRepo) LikedSet(userID uint, commentIDs []uint) (map[uint]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[uint]bool{}
	for _, l := range r.s.commentLikes {
		if l.UserID == userID && containsID(commentIDs, l.CommentID) {
			out[l.CommentID] = true
		}
	}
	return out, nil
}

type likeRepo struct{ s *Store }

func (r *likeRepo) Find(userID, contentID uint) (*domain.Like, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.likes {
		if l.UserID == userID && l.ContentID == contentID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *likeRepo) Create(l *domain.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.likes {
		if e.UserID == l.UserID && e.ContentID == l.ContentID {
			return domain.Conflict("vote already recorded")
		}
	}
	l.ID = r.s.nextID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	cp := *l
	r.s.likes[l.ID] = &cp
	return nil
}

func (r *likeRepo) Update(l *domain.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.likes[l.ID]; !ok {
		return domain.NotFound("like not found")
	}
	cp := *l
	r.s.likes[l.ID] = &cp
	return nil
}

func (r *likeRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.likes, id)
	return nil
}

func (r *likeRepo) CountByContent(contentID uint, isLike bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, l := range r.s.likes {
		if l.ContentID == contentID && l.IsLike == isLike {
			n++
		}
	}
	return n, nil
}

func (r *likeRepo) DeleteByContent(contentID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.likes {
		if l.ContentID == contentID {
			delete(r.s.likes, id)
		}
	}
	return nil
}

type wishlistRepo struct{ s *Store }

func (r *wishlistRepo) Add(userID, contentID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := pair{userID, contentID}
	if _, ok := r.s.wishlist[p]; ok {
		return false, nil
	}
	r.s.wishlist[p] = struct{}{}
	return true, nil
}

func (r *wishlistRepo) Remove(userID, contentID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := pair{userID, contentID}
	if _, ok := r.s.wishlist[p]; !ok {
		return false, nil
	}
	delete(r.s.wishlist, p)
	return true, nil
}

func (r *wishlistRepo) RemoveByContent(contentID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for p := range r.s.wishlist {
		if p.B == contentID {
			delete(r.s.wishlist, p)
		}
	}
	return nil
}

func (r *wishlistRepo) ListByUser(userID uint) ([]domain.Content, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Content
	for p := range r.s.wishlist {
		if p.A == userID {
			if c, ok := r.s.contents[p.B]; ok {
				out = append(out, *c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
