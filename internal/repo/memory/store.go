// Package memory 提供 domain.Store 的内存实现，供服务层测试使用。
// 无真实事务：InTx 直接在同一 Store 上执行。
package memory

import (
	"context"
	"sync"

	"techshare/internal/domain"
)

type pair struct{ A, B uint }

type Store struct {
	mu  sync.RWMutex
	seq uint

	users         map[uint]*domain.User
	contents      map[uint]*domain.Content
	categories    map[uint]*domain.Category
	subscriptions map[pair]struct{} // (user, category)
	comments      map[uint]*domain.Comment
	commentLikes  map[uint]*domain.CommentLike
	likes         map[uint]*domain.Like
	wishlist      map[pair]struct{} // (user, content)
	flags         map[uint]*domain.ContentFlag
	notifications map[uint]*domain.Notification
	outbox        map[uint]*domain.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		users:         map[uint]*domain.User{},
		contents:      map[uint]*domain.Content{},
		categories:    map[uint]*domain.Category{},
		subscriptions: map[pair]struct{}{},
		comments:      map[uint]*domain.Comment{},
		commentLikes:  map[uint]*domain.CommentLike{},
		likes:         map[uint]*domain.Like{},
		wishlist:      map[pair]struct{}{},
		flags:         map[uint]*domain.ContentFlag{},
		notifications: map[uint]*domain.Notification{},
		outbox:        map[uint]*domain.OutboxMessage{},
	}
}

func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

func (s *Store) Users() domain.UserRepository                 { return &userRepo{s} }
func (s *Store) Contents() domain.ContentRepository           { return &contentRepo{s} }
func (s *Store) Categories() domain.CategoryRepository        { return &categoryRepo{s} }
func (s *Store) Comments() domain.CommentRepository           { return &commentRepo{s} }
func (s *Store) CommentLikes() domain.CommentLikeRepository   { return &commentLikeRepo{s} }
func (s *Store) Likes() domain.LikeRepository                 { return &likeRepo{s} }
func (s *Store) Wishlist() domain.WishlistRepository          { return &wishlistRepo{s} }
func (s *Store) Flags() domain.FlagRepository                 { return &flagRepo{s} }
func (s *Store) Notifications() domain.NotificationRepository { return &notificationRepo{s} }
func (s *Store) Outbox() domain.OutboxRepository              { return &outboxRepo{s} }

func (s *Store) InTx(_ context.Context, fn func(domain.Store) error) error { return fn(s) }
