package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/category"
	"techshare/internal/feature/notify"
	"techshare/internal/repo/memory"
)

type fixture struct {
	store *memory.Store
	svc   *category.Service

	admin  *domain.User
	writer *domain.User
	reader *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, svc: category.NewService(store, zap.NewNop())}

	mk := func(name, role string) *domain.User {
		u := &domain.User{
			Email: name + "@example.com", Username: name,
			PasswordHash: "x", Role: role, IsActive: true,
		}
		require.NoError(t, store.Users().Create(u))
		return u
	}
	f.admin = mk("admin", domain.RoleAdmin)
	f.writer = mk("writer", domain.RoleTechWriter)
	f.reader = mk("reader", domain.RoleUser)
	return f
}

func (f *fixture) sweep(t *testing.T) {
	t.Helper()
	_, err := notify.NewDispatcher(f.store, zap.NewNop(), 100).Sweep()
	require.NoError(t, err)
}

func TestCreateCategory(t *testing.T) {
	f := newFixture(t)

	// 普通用户无权建分类
	_, err := f.svc.Create(f.reader, category.CreateInput{Name: "golang"})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	cat, err := f.svc.Create(f.writer, category.CreateInput{Name: "golang", Description: "go things"})
	require.NoError(t, err)
	require.NotNil(t, cat.CreatedBy)
	assert.Equal(t, f.writer.ID, *cat.CreatedBy)

	// 同名冲突
	_, err = f.svc.Create(f.admin, category.CreateInput{Name: "golang"})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = f.svc.Create(f.admin, category.CreateInput{Name: "   "})
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
}

func TestDeleteCategoryGuardedByContent(t *testing.T) {
	f := newFixture(t)
	cat, err := f.svc.Create(f.admin, category.CreateInput{Name: "golang"})
	require.NoError(t, err)

	// 仅 admin 可删
	err = f.svc.Delete(f.writer, cat.ID)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	require.NoError(t, f.store.Contents().Create(&domain.Content{
		Title: "Post", ContentType: domain.ContentArticle,
		Status: domain.StatusPublished, AuthorID: f.writer.ID, CategoryID: cat.ID,
	}))
	err = f.svc.Delete(f.admin, cat.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	empty, err := f.svc.Create(f.admin, category.CreateInput{Name: "empty"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(f.admin, empty.ID))
	_, err = f.svc.Get(empty.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSubscribeNotifiesCreatorOnce(t *testing.T) {
	f := newFixture(t)
	cat, err := f.svc.Create(f.writer, category.CreateInput{Name: "golang"})
	require.NoError(t, err)

	msg, err := f.svc.Subscribe(context.Background(), f.reader, cat.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "subscribed")

	// 重复订阅幂等，且不再通知
	_, err = f.svc.Subscribe(context.Background(), f.reader, cat.ID)
	require.NoError(t, err)

	f.sweep(t)
	ns, err := f.store.Notifications().ListByUser(f.writer.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyFollow, ns[0].Type)

	subs, err := f.svc.Subscriptions(f.reader.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, cat.ID, subs[0].ID)
}

func TestSubscribeSelfDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	cat, err := f.svc.Create(f.writer, category.CreateInput{Name: "golang"})
	require.NoError(t, err)

	_, err = f.svc.Subscribe(context.Background(), f.writer, cat.ID)
	require.NoError(t, err)
	f.sweep(t)
	ns, err := f.store.Notifications().ListByUser(f.writer.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	cat, err := f.svc.Create(f.writer, category.CreateInput{Name: "golang"})
	require.NoError(t, err)
	_, err = f.svc.Subscribe(context.Background(), f.reader, cat.ID)
	require.NoError(t, err)

	_, err = f.svc.Unsubscribe(f.reader, cat.ID)
	require.NoError(t, err)
	subs, err := f.svc.Subscriptions(f.reader.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	// 再退一次也不报错
	_, err = f.svc.Unsubscribe(f.reader, cat.ID)
	assert.NoError(t, err)

	_, err = f.svc.Subscribe(context.Background(), f.reader, 999)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestListCategories(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.admin, category.CreateInput{Name: "golang"})
	require.NoError(t, err)
	_, err = f.svc.Create(f.admin, category.CreateInput{Name: "databases"})
	require.NoError(t, err)

	cats, err := f.svc.List()
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}
