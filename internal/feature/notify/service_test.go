package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/notify"
	"techshare/internal/repo/memory"
)

func seedUsers(t *testing.T, store *memory.Store) (alice, bob *domain.User) {
	t.Helper()
	mk := func(name string) *domain.User {
		u := &domain.User{
			Email: name + "@example.com", Username: name,
			PasswordHash: "x", Role: domain.RoleUser, IsActive: true,
		}
		require.NoError(t, store.Users().Create(u))
		return u
	}
	return mk("alice"), mk("bob")
}

func TestEmitThenSweepDelivers(t *testing.T) {
	store := memory.NewStore()
	alice, _ := seedUsers(t, store)
	svc := notify.NewService(store)

	require.NoError(t, notify.Emit(store, alice.ID, domain.NotifySystem, "Hello", "welcome", nil))

	// 派发之前收件箱是空的
	ns, err := svc.List(alice.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, ns)

	d := notify.NewDispatcher(store, zap.NewNop(), 100)
	n, err := d.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ns, err = svc.List(alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "Hello", ns[0].Title)
	assert.False(t, ns[0].IsRead)

	// 再扫一轮不会重复派发
	n, err = d.Sweep()
	require.NoError(t, err)
	assert.Zero(t, n)
	ns, err = svc.List(alice.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, ns, 1)
}

func TestSweepBatchLimit(t *testing.T) {
	store := memory.NewStore()
	alice, _ := seedUsers(t, store)
	for i := 0; i < 5; i++ {
		require.NoError(t, notify.Emit(store, alice.ID, domain.NotifySystem, "t", "m", nil))
	}

	d := notify.NewDispatcher(store, zap.NewNop(), 2)
	n, err := d.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// 剩余的留到后续轮次
	n, err = d.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = d.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	store := memory.NewStore()
	alice, bob := seedUsers(t, store)
	svc := notify.NewService(store)

	require.NoError(t, notify.Emit(store, alice.ID, domain.NotifyComment, "c", "m", nil))
	_, err := notify.NewDispatcher(store, zap.NewNop(), 100).Sweep()
	require.NoError(t, err)

	ns, err := svc.List(alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	id := ns[0].ID

	// 别人的通知标不了，也看不出存在
	err = svc.MarkRead(bob.ID, id)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	require.NoError(t, svc.MarkRead(alice.ID, id))
	ns, err = svc.List(alice.ID, 0, 10)
	require.NoError(t, err)
	assert.True(t, ns[0].IsRead)

	err = svc.MarkRead(alice.ID, 999)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	store := memory.NewStore()
	alice, bob := seedUsers(t, store)
	svc := notify.NewService(store)

	for i := 0; i < 3; i++ {
		require.NoError(t, notify.Emit(store, alice.ID, domain.NotifySystem, "t", "m", nil))
	}
	require.NoError(t, notify.Emit(store, bob.ID, domain.NotifySystem, "t", "m", nil))
	_, err := notify.NewDispatcher(store, zap.NewNop(), 100).Sweep()
	require.NoError(t, err)

	n, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, svc.MarkAllRead(alice.ID))
	n, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// 只动自己的
	n, err = svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
