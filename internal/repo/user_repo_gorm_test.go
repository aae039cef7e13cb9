package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-user-center/internal/domain"
)

func newTestRepo(t *testing.T) *UserRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.LoginEvent{}))
	return NewUserRepo(db)
}

func seedUser(t *testing.T, r *UserRepo, first, last, email string) *domain.User {
	t.Helper()
	u := &domain.User{Firstname: first, Lastname: last, Email: email, Password: "x", Role: "user"}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestCreateAndFind(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "Ann", "Lee", "ann@x.com")
	require.NotZero(t, u.ID)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ann@x.com", byID.Email)

	byEmail, err := r.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	missing, err := r.FindByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateDuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, r, "Ann", "Lee", "ann@x.com")
	err := r.Create(ctx, &domain.User{Firstname: "Bob", Lastname: "Kim", Email: "ann@x.com", Password: "y", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestListOrderAndPagination(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedUser(t, r, "U", fmt.Sprint(i), fmt.Sprintf("u%d@x.com", i))
	}

	page1, err := r.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Less(t, page1[0].ID, page1[1].ID)

	page2, err := r.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Greater(t, page2[0].ID, page1[1].ID)

	empty, err := r.List(ctx, 100, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestDelete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "Ann", "Lee", "ann@x.com")

	ok, err := r.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	users, err := r.List(ctx, 0, 10)
	require.NoError(t, err)
	for _, x := range users {
		assert.NotEqual(t, u.ID, x.ID)
	}
}

func TestLoginStats(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	ann := seedUser(t, r, "Ann", "Lee", "ann@x.com")
	bob := seedUser(t, r, "Bob", "Kim", "bob@x.com")
	cat := seedUser(t, r, "Cat", "Wu", "cat@x.com")

	require.NoError(t, r.RecordLogin(ctx, ann.ID))
	require.NoError(t, r.RecordLogin(ctx, bob.ID))
	require.NoError(t, r.RecordLogin(ctx, bob.ID))

	stats, err := r.LoginStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	// 次数降序，零次也要出现
	assert.Equal(t, domain.LoginStat{UserID: bob.ID, Name: "Bob Kim", LoginCount: 2}, stats[0])
	assert.Equal(t, domain.LoginStat{UserID: ann.ID, Name: "Ann Lee", LoginCount: 1}, stats[1])
	assert.Equal(t, domain.LoginStat{UserID: cat.ID, Name: "Cat Wu", LoginCount: 0}, stats[2])

	// 无写入时重复读结果一致
	again, err := r.LoginStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestLoginStatsTieBreakByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a := seedUser(t, r, "A", "A", "a@x.com")
	b := seedUser(t, r, "B", "B", "b@x.com")
	require.NoError(t, r.RecordLogin(ctx, a.ID))
	require.NoError(t, r.RecordLogin(ctx, b.ID))

	stats, err := r.LoginStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, a.ID, stats[0].UserID)
	assert.Equal(t, b.ID, stats[1].UserID)
}

func TestUpdate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "Ann", "Lee", "ann@x.com")
	u.Firstname = "Anna"
	u.Role = "admin"
	require.NoError(t, r.Update(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Anna", got.Firstname)
	assert.Equal(t, "admin", got.Role)
}
