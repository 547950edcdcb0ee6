// Package identity 身份解析与能力判定：凭证 -> 用户记录，注册/登录，启停账号。
package identity

import (
	"strings"

	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/pkg/utils"
)

// legacyHashMarker 历史迁移遗留的占位哈希。带这个值的账号一律拒绝登录并要求重置，
// 绝不按「任意密码通过」处理
const legacyHashMarker = "simple_hash"

type Service struct {
	store domain.Store
	log   *zap.Logger
}

func NewService(store domain.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Role     string // 仅管理端建号时使用，留空为普通用户
}

func (s *Service) Register(in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, domain.Invalid("email, username and password are required")
	}
	if u, err := s.store.Users().FindByEmail(email); err != nil {
		return nil, err
	} else if u != nil {
		return nil, domain.Conflict("user with this email already exists")
	}
	if u, err := s.store.Users().FindByUsername(username); err != nil {
		return nil, err
	} else if u != nil {
		return nil, domain.Conflict("user with this username already exists")
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	switch role {
	case domain.RoleAdmin, domain.RoleTechWriter, domain.RoleUser:
	default:
		return nil, domain.Invalid("invalid role")
	}

	u := &domain.User{
		Email:        email,
		Username:     username,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: utils.HashPassword(in.Password),
		Role:         role,
		IsActive:     true,
	}
	// 唯一索引兜底并发注册
	if err := s.store.Users().Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户名或邮箱登录。凭证错误统一 Unauthorized，不泄露账号是否存在
func (s *Service) Login(account, password string) (*domain.User, error) {
	account = strings.TrimSpace(account)
	u, err := s.store.Users().FindByUsername(account)
	if err != nil {
		return nil, err
	}
	if u == nil {
		if u, err = s.store.Users().FindByEmail(strings.ToLower(account)); err != nil {
			return nil, err
		}
	}
	if u == nil {
		return nil, domain.Unauthorized("invalid credentials")
	}

	if u.PasswordHash == legacyHashMarker {
		s.log.Warn("login refused for unmigrated legacy credential, password reset required",
			zap.Uint("user_id", u.ID))
		return nil, domain.Unauthorized("password reset required")
	}

	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.Unauthorized("invalid credentials")
	}
	if !u.IsActive {
		return nil, domain.Forbidden("inactive user")
	}

	// 旧 cost 的 bcrypt 哈希在成功登录时就地升级
	if utils.NeedsRehash(u.PasswordHash) {
		u.PasswordHash = utils.HashPassword(password)
		if err := s.store.Users().Update(u); err != nil {
			s.log.Warn("password rehash failed", zap.Uint("user_id", u.ID), zap.Error(err))
		} else {
			s.log.Info("legacy password hash upgraded", zap.Uint("user_id", u.ID))
		}
	}
	return u, nil
}

// Authenticate token 解析后的 uid -> 用户记录，供请求中间件使用
func (s *Service) Authenticate(uid uint) (*domain.User, error) {
	u, err := s.store.Users().FindByID(uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.Unauthorized("user not found")
	}
	if !u.IsActive {
		return nil, domain.Forbidden("inactive user")
	}
	return u, nil
}

func (s *Service) SetActive(userID uint, active bool) (*domain.User, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	u.IsActive = active
	if err := s.store.Users().Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) SetAvatar(userID uint, url string) (*domain.User, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	u.AvatarURL = url
	if err := s.store.Users().Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ListUsers(f domain.UserFilter) ([]domain.User, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.store.Users().List(f)
}
