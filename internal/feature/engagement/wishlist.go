package engagement

import "techshare/internal/domain"

// AddToWishlist 幂等：重复加入不算错误，只是提示语不同
func (s *Service) AddToWishlist(actor *domain.User, contentID uint) (string, error) {
	c, err := s.store.Contents().FindByID(contentID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", domain.NotFound("content not found")
	}
	added, err := s.store.Wishlist().Add(actor.ID, contentID)
	if err != nil {
		return "", err
	}
	if !added {
		return "content already in wishlist", nil
	}
	return "content added to wishlist", nil
}

func (s *Service) RemoveFromWishlist(actor *domain.User, contentID uint) (string, error) {
	removed, err := s.store.Wishlist().Remove(actor.ID, contentID)
	if err != nil {
		return "", err
	}
	if !removed {
		return "content not in wishlist", nil
	}
	return "content removed from wishlist", nil
}

func (s *Service) WishlistContents(userID uint) ([]domain.Content, error) {
	return s.store.Wishlist().ListByUser(userID)
}
