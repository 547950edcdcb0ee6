package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/content"
	"techshare/internal/feature/notify"
	"techshare/internal/repo/memory"
)

type fixture struct {
	store      *memory.Store
	svc        *content.Service
	dispatcher *notify.Dispatcher

	admin      *domain.User
	writer     *domain.User
	reader     *domain.User
	subscriber *domain.User
	category   *domain.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:      store,
		svc:        content.NewService(store, zap.NewNop()),
		dispatcher: notify.NewDispatcher(store, zap.NewNop(), 100),
	}

	mkUser := func(name, role string) *domain.User {
		u := &domain.User{
			Email: name + "@example.com", Username: name,
			PasswordHash: "x", Role: role, IsActive: true,
		}
		require.NoError(t, store.Users().Create(u))
		return u
	}
	f.admin = mkUser("admin", domain.RoleAdmin)
	f.writer = mkUser("writer", domain.RoleTechWriter)
	f.reader = mkUser("reader", domain.RoleUser)
	f.subscriber = mkUser("subscriber", domain.RoleUser)

	f.category = &domain.Category{Name: "golang", CreatedBy: &f.admin.ID}
	require.NoError(t, store.Categories().Create(f.category))
	_, err := store.Categories().Subscribe(f.subscriber.ID, f.category.ID)
	require.NoError(t, err)
	return f
}

func (f *fixture) create(t *testing.T, author *domain.User, title string) *domain.Content {
	t.Helper()
	c, err := f.svc.Create(context.Background(), author, content.CreateInput{
		Title: title, Body: "body", ContentType: domain.ContentArticle, CategoryID: f.category.ID,
	})
	require.NoError(t, err)
	return c
}

// sweep 把 outbox 派发成真正的通知
func (f *fixture) sweep(t *testing.T) {
	t.Helper()
	_, err := f.dispatcher.Sweep()
	require.NoError(t, err)
}

func (f *fixture) notificationsOf(t *testing.T, userID uint) []domain.Notification {
	t.Helper()
	ns, err := f.store.Notifications().ListByUser(userID, 0, 100)
	require.NoError(t, err)
	return ns
}

func TestCreateStartsInReview(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, f.writer, "New Post")
	assert.Equal(t, domain.StatusReview, c.Status)
	assert.Nil(t, c.PublishedAt)

	// 普通读者看不到待审核内容
	_, err := f.svc.Get(domain.Viewer{ID: f.reader.ID, Role: domain.RoleUser}, c.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	// 作者（tech_writer）和管理员可见
	_, err = f.svc.Get(domain.Viewer{ID: f.writer.ID, Role: domain.RoleTechWriter}, c.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(domain.Viewer{ID: f.admin.ID, Role: domain.RoleAdmin}, c.ID)
	assert.NoError(t, err)
}

func TestCreateNotifiesAuthorAndAdmins(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.writer, "New Post")
	f.sweep(t)

	author := f.notificationsOf(t, f.writer.ID)
	require.Len(t, author, 1)
	assert.Equal(t, domain.NotifyStatusChange, author[0].Type)

	admins := f.notificationsOf(t, f.admin.ID)
	require.Len(t, admins, 1)
	assert.Equal(t, domain.NotifySystem, admins[0].Type)

	// 无关用户没有任何通知
	assert.Empty(t, f.notificationsOf(t, f.reader.ID))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.writer, content.CreateInput{
		ContentType: domain.ContentArticle, CategoryID: f.category.ID,
	})
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	_, err = f.svc.Create(ctx, f.writer, content.CreateInput{
		Title: "t", ContentType: "newsletter", CategoryID: f.category.ID,
	})
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	_, err = f.svc.Create(ctx, f.writer, content.CreateInput{
		Title: "t", ContentType: domain.ContentArticle, CategoryID: 999,
	})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestApprovePublishesAndNotifiesSubscribers(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, f.writer, "New Post")

	// 普通用户无权审批
	_, err := f.svc.Approve(context.Background(), f.reader, c.ID)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	got, err := f.svc.Approve(context.Background(), f.admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)

	// 已发布内容不能重复审批
	_, err = f.svc.Approve(context.Background(), f.admin, c.ID)
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	f.sweep(t)
	// 作者：提交 + 通过 两条
	author := f.notificationsOf(t, f.writer.ID)
	assert.Len(t, author, 2)
	// 订阅者恰好一条新内容通知
	subs := f.notificationsOf(t, f.subscriber.ID)
	require.Len(t, subs, 1)
	assert.Equal(t, domain.NotifySystem, subs[0].Type)

	// 读者现在可见
	v, err := f.svc.Get(domain.Viewer{ID: f.reader.ID, Role: domain.RoleUser}, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Post", v.Title)
}

func TestApproveSkipsAuthorAsSubscriber(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Categories().Subscribe(f.writer.ID, f.category.ID)
	require.NoError(t, err)

	c := f.create(t, f.writer, "Self Subscribed")
	_, err = f.svc.Approve(context.Background(), f.admin, c.ID)
	require.NoError(t, err)
	f.sweep(t)

	// 作者订阅了自己的分类，也只收到提交/通过两条，没有订阅广播
	assert.Len(t, f.notificationsOf(t, f.writer.ID), 2)
}

func TestRejectIsTerminalButKeepsContent(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, f.writer, "Bad Post")

	got, err := f.svc.Reject(context.Background(), f.admin, c.ID, "not a fit")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)

	f.sweep(t)
	ns := f.notificationsOf(t, f.writer.ID)
	require.Len(t, ns, 2)
	assert.Contains(t, ns[0].Message+ns[1].Message, "not a fit")

	// 已发布的内容不能再被驳回
	c2 := f.create(t, f.writer, "Good Post")
	_, err = f.svc.Approve(context.Background(), f.admin, c2.ID)
	require.NoError(t, err)
	_, err = f.svc.Reject(context.Background(), f.admin, c2.ID, "")
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
}

func TestGetIncrementsViews(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, f.writer, "Counted")
	_, err := f.svc.Approve(context.Background(), f.admin, c.ID)
	require.NoError(t, err)

	viewer := domain.Viewer{ID: f.reader.ID, Role: domain.RoleUser}
	v1, err := f.svc.Get(viewer, c.ID)
	require.NoError(t, err)
	v2, err := f.svc.Get(viewer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, v1.ViewsCount)
	assert.Equal(t, 2, v2.ViewsCount)
}

func TestUpdatePermissions(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, f.writer, "Original")

	title := "Edited"
	_, err := f.svc.Update(f.reader, c.ID, content.UpdateInput{Title: &title})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	v, err := f.svc.Update(f.writer, c.ID, content.UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Edited", v.Title)

	// admin 可以编辑任何人的内容
	title2 := "Admin Edit"
	v, err = f.svc.Update(f.admin, c.ID, content.UpdateInput{Title: &title2})
	require.NoError(t, err)
	assert.Equal(t, "Admin Edit", v.Title)
}

func TestDeleteCascadesAndResolvesFlags(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, f.writer, "Doomed")
	_, err := f.svc.Approve(context.Background(), f.admin, c.ID)
	require.NoError(t, err)

	require.NoError(t, f.store.Comments().Create(&domain.Comment{
		ContentID: c.ID, AuthorID: f.reader.ID, Text: "hi",
	}))
	require.NoError(t, f.store.Likes().Create(&domain.Like{
		UserID: f.reader.ID, ContentID: c.ID, IsLike: true,
	}))
	_, err = f.store.Wishlist().Add(f.reader.ID, c.ID)
	require.NoError(t, err)
	flag := &domain.ContentFlag{ContentID: c.ID, FlaggerID: f.reader.ID, Reason: domain.FlagReasonSpam}
	require.NoError(t, f.store.Flags().Create(flag))

	// 删除他人内容需要 admin
	err = f.svc.Delete(context.Background(), f.reader, c.ID, "")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	require.NoError(t, f.svc.Delete(context.Background(), f.admin, c.ID, "policy violation"))

	got, err := f.store.Contents().FindByID(c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	n, err := f.store.Comments().CountByContent(c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	items, err := f.store.Wishlist().ListByUser(f.reader.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// 举报行保留为审计记录，但已被关闭
	kept, err := f.store.Flags().FindByID(flag.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.True(t, kept.IsResolved)
	assert.Equal(t, "content deleted", kept.AdminNotes)

	// 管理员代删触发作者通知，且带理由
	f.sweep(t)
	var found bool
	for _, nf := range f.notificationsOf(t, f.writer.ID) {
		if nf.Title == "Content removed" {
			found = true
			assert.Contains(t, nf.Message, "policy violation")
		}
	}
	assert.True(t, found)
}

func TestListVisibilityAndPagination(t *testing.T) {
	f := newFixture(t)
	c1 := f.create(t, f.writer, "One")
	f.create(t, f.writer, "Two")
	_, err := f.svc.Approve(context.Background(), f.admin, c1.ID)
	require.NoError(t, err)

	// 读者只看到已发布的那条
	items, total, err := f.svc.List(domain.ContentFilter{
		Viewer: domain.Viewer{ID: f.reader.ID, Role: domain.RoleUser},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "One", items[0].Title)

	// 管理员全量
	_, total, err = f.svc.List(domain.ContentFilter{
		Viewer: domain.Viewer{ID: f.admin.ID, Role: domain.RoleAdmin},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestRecommendationsFollowSubscriptions(t *testing.T) {
	f := newFixture(t)
	other := &domain.Category{Name: "rust", CreatedBy: &f.admin.ID}
	require.NoError(t, f.store.Categories().Create(other))

	inSub := f.create(t, f.writer, "Subscribed Topic")
	outOfSub, err := f.svc.Create(context.Background(), f.writer, content.CreateInput{
		Title: "Other Topic", ContentType: domain.ContentArticle, CategoryID: other.ID,
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(context.Background(), f.admin, inSub.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(context.Background(), f.admin, outOfSub.ID)
	require.NoError(t, err)

	recs, err := f.svc.Recommendations(f.subscriber, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Subscribed Topic", recs[0].Title)

	// 没有订阅就没有推荐
	recs, err = f.svc.Recommendations(f.reader, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
