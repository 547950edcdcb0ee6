package moderation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/moderation"
	"techshare/internal/feature/notify"
	"techshare/internal/repo/memory"
)

type fixture struct {
	store *memory.Store
	svc   *moderation.Service

	admin   *domain.User
	author  *domain.User
	flagger *domain.User
	content *domain.Content
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, svc: moderation.NewService(store, zap.NewNop())}

	mkUser := func(name, role string) *domain.User {
		u := &domain.User{
			Email: name + "@example.com", Username: name,
			PasswordHash: "x", Role: role, IsActive: true,
		}
		require.NoError(t, store.Users().Create(u))
		return u
	}
	f.admin = mkUser("admin", domain.RoleAdmin)
	f.author = mkUser("author", domain.RoleTechWriter)
	f.flagger = mkUser("flagger", domain.RoleUser)

	cat := &domain.Category{Name: "golang"}
	require.NoError(t, store.Categories().Create(cat))
	f.content = &domain.Content{
		Title: "Post", ContentType: domain.ContentArticle,
		Status: domain.StatusPublished, AuthorID: f.author.ID, CategoryID: cat.ID,
	}
	require.NoError(t, store.Contents().Create(f.content))
	return f
}

func (f *fixture) sweep(t *testing.T) {
	t.Helper()
	_, err := notify.NewDispatcher(f.store, zap.NewNop(), 100).Sweep()
	require.NoError(t, err)
}

func TestFlagMarksContent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, "nonsense", "")
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	fl, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "spammy link")
	require.NoError(t, err)
	assert.False(t, fl.IsResolved)

	c, err := f.store.Contents().FindByID(f.content.ID)
	require.NoError(t, err)
	assert.True(t, c.IsFlagged)

	// 被标记的内容对普通读者消失
	assert.False(t, domain.ContentVisible(domain.Viewer{ID: f.flagger.ID, Role: domain.RoleUser}, c))

	f.sweep(t)
	ns, err := f.store.Notifications().ListByUser(f.author.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyFlag, ns[0].Type)
}

func TestFlagDuplicateOpenFlagConflicts(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	require.NoError(t, err)

	_, err = f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonOther, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// 另一个用户的举报不受影响
	other := &domain.User{Email: "o@example.com", Username: "other", PasswordHash: "x", Role: domain.RoleUser, IsActive: true}
	require.NoError(t, f.store.Users().Create(other))
	_, err = f.svc.Flag(context.Background(), other, f.content.ID, domain.FlagReasonHarassment, "")
	assert.NoError(t, err)
}

func TestResolveApproveRemovesContentKeepsAudit(t *testing.T) {
	f := newFixture(t)
	fl, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	require.NoError(t, err)

	other := &domain.User{Email: "o@example.com", Username: "other", PasswordHash: "x", Role: domain.RoleUser, IsActive: true}
	require.NoError(t, f.store.Users().Create(other))
	fl2, err := f.svc.Flag(context.Background(), other, f.content.ID, domain.FlagReasonOther, "")
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(context.Background(), f.admin, fl.ID, domain.FlagActionApprove, "confirmed spam")
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	assert.Equal(t, "confirmed spam", resolved.AdminNotes)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, f.admin.ID, *resolved.ResolvedBy)

	// 内容已删除
	c, err := f.store.Contents().FindByID(f.content.ID)
	require.NoError(t, err)
	assert.Nil(t, c)

	// 两条举报都留档且已关闭
	kept, err := f.store.Flags().FindByID(fl.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.True(t, kept.IsResolved)
	kept2, err := f.store.Flags().FindByID(fl2.ID)
	require.NoError(t, err)
	require.NotNil(t, kept2)
	assert.True(t, kept2.IsResolved)
	assert.Equal(t, "resolved with content removal", kept2.AdminNotes)

	// 已关闭的举报不能再处理
	_, err = f.svc.Resolve(context.Background(), f.admin, fl2.ID, domain.FlagActionReject, "")
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
}

func TestResolveRejectKeepsContentAndClearsMark(t *testing.T) {
	f := newFixture(t)
	fl, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), f.admin, fl.ID, domain.FlagActionReject, "looks fine")
	require.NoError(t, err)

	c, err := f.store.Contents().FindByID(f.content.ID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.False(t, c.IsFlagged)
	assert.Equal(t, domain.StatusPublished, c.Status)
}

func TestResolveRejectKeepsMarkWhileOthersOpen(t *testing.T) {
	f := newFixture(t)
	fl, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	require.NoError(t, err)
	other := &domain.User{Email: "o@example.com", Username: "other", PasswordHash: "x", Role: domain.RoleUser, IsActive: true}
	require.NoError(t, f.store.Users().Create(other))
	_, err = f.svc.Flag(context.Background(), other, f.content.ID, domain.FlagReasonOther, "")
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), f.admin, fl.ID, domain.FlagActionReject, "")
	require.NoError(t, err)

	c, err := f.store.Contents().FindByID(f.content.ID)
	require.NoError(t, err)
	assert.True(t, c.IsFlagged) // 还有一条未关闭举报
}

func TestResolveValidation(t *testing.T) {
	f := newFixture(t)
	fl, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), f.admin, fl.ID, "escalate", "")
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
	_, err = f.svc.Resolve(context.Background(), f.admin, 999, domain.FlagActionReject, "")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestUnflagDismissesAllOpenFlags(t *testing.T) {
	f := newFixture(t)
	fl, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Unflag(context.Background(), f.admin, f.content.ID))

	c, err := f.store.Contents().FindByID(f.content.ID)
	require.NoError(t, err)
	assert.False(t, c.IsFlagged)

	kept, err := f.store.Flags().FindByID(fl.ID)
	require.NoError(t, err)
	assert.True(t, kept.IsResolved)
	assert.Equal(t, "dismissed by unflag", kept.AdminNotes)

	// 同一人现在可以再次举报
	_, err = f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	assert.NoError(t, err)
}

func TestListFlagsFilterByResolved(t *testing.T) {
	f := newFixture(t)
	fl, err := f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonSpam, "")
	require.NoError(t, err)
	_, err = f.svc.Resolve(context.Background(), f.admin, fl.ID, domain.FlagActionReject, "")
	require.NoError(t, err)
	_, err = f.svc.Flag(context.Background(), f.flagger, f.content.ID, domain.FlagReasonOther, "")
	require.NoError(t, err)

	unresolved := false
	items, total, err := f.svc.List(domain.FlagFilter{Resolved: &unresolved})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsResolved)

	_, total, err = f.svc.List(domain.FlagFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
