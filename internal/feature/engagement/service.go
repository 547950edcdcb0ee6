// Package engagement 点赞/点踩、楼中楼评论与收藏。
package engagement

import (
	"go.uber.org/zap"

	"techshare/internal/domain"
)

type Service struct {
	store domain.Store
	log   *zap.Logger
}

func NewService(store domain.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}
