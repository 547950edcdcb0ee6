package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"techshare/internal/domain"
	"techshare/internal/feature/identity"
	"techshare/internal/repo/memory"
)

func newSvc(t *testing.T) (*identity.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return identity.NewService(store, zap.NewNop()), store
}

func TestRegister(t *testing.T) {
	svc, _ := newSvc(t)

	u, err := svc.Register(identity.RegisterInput{
		Email:    "Alice@Example.COM",
		Username: "alice",
		Password: "password123",
		FullName: "Alice A",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password123", u.PasswordHash)

	_, err = svc.Register(identity.RegisterInput{
		Email: "alice@example.com", Username: "alice2", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.EqualError(t, err, "user with this email already exists")

	_, err = svc.Register(identity.RegisterInput{
		Email: "other@example.com", Username: "alice", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.EqualError(t, err, "user with this username already exists")

	_, err = svc.Register(identity.RegisterInput{
		Email: "bob@example.com", Username: "bob", Password: "pw", Role: "superuser",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newSvc(t)
	_, err := svc.Register(identity.RegisterInput{
		Email: "alice@example.com", Username: "alice", Password: "password123",
	})
	require.NoError(t, err)

	// 用户名登录
	u, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// 邮箱登录，大小写不敏感
	u, err = svc.Login("Alice@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// 错误密码与不存在的账号给同样的错误
	_, err = svc.Login("alice", "nope")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	assert.EqualError(t, err, "invalid credentials")
	_, err = svc.Login("ghost", "password123")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginInactive(t *testing.T) {
	svc, _ := newSvc(t)
	u, err := svc.Register(identity.RegisterInput{
		Email: "alice@example.com", Username: "alice", Password: "password123",
	})
	require.NoError(t, err)
	_, err = svc.SetActive(u.ID, false)
	require.NoError(t, err)

	_, err = svc.Login("alice", "password123")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	_, err = svc.Authenticate(u.ID)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestLoginRefusesLegacyPlaceholderHash(t *testing.T) {
	svc, store := newSvc(t)
	u := &domain.User{
		Email: "old@example.com", Username: "olduser",
		PasswordHash: "simple_hash", Role: domain.RoleUser, IsActive: true,
	}
	require.NoError(t, store.Users().Create(u))

	// 迁移遗留账号绝不按任意密码放行
	_, err := svc.Login("olduser", "simple_hash")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	assert.EqualError(t, err, "password reset required")

	_, err = svc.Login("olduser", "anything")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestLoginUpgradesLowCostHash(t *testing.T) {
	svc, store := newSvc(t)
	low, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		Email: "alice@example.com", Username: "alice",
		PasswordHash: string(low), Role: domain.RoleUser, IsActive: true,
	}
	require.NoError(t, store.Users().Create(u))

	_, err = svc.Login("alice", "password123")
	require.NoError(t, err)

	fresh, err := store.Users().FindByID(u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, string(low), fresh.PasswordHash)
	cost, err := bcrypt.Cost([]byte(fresh.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	// 新哈希仍然可登录
	_, err = svc.Login("alice", "password123")
	require.NoError(t, err)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc, _ := newSvc(t)
	_, err := svc.Authenticate(999)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestSetAvatar(t *testing.T) {
	svc, _ := newSvc(t)
	u, err := svc.Register(identity.RegisterInput{
		Email: "alice@example.com", Username: "alice", Password: "password123",
	})
	require.NoError(t, err)

	got, err := svc.SetAvatar(u.ID, "/uploads/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.png", got.AvatarURL)

	_, err = svc.SetAvatar(12345, "/uploads/x.png")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
