package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserServiceForTest(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepo(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newUserServiceForTest(db)
	ctx := context.Background()

	created, err := svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice",
		Email:    "alice@test.local",
		Password: "secret-pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, int64(0), created.Karma)

	t.Run("用户名已占用", func(t *testing.T) {
		_, err := svc.Register(ctx, &dto.RegisterDTO{
			Username: "alice", Email: "other@test.local", Password: "secret-pw",
		})
		assert.ErrorIs(t, err, ErrUsernameExist)
	})

	t.Run("邮箱已占用", func(t *testing.T) {
		_, err := svc.Register(ctx, &dto.RegisterDTO{
			Username: "alice2", Email: "alice@test.local", Password: "secret-pw",
		})
		assert.ErrorIs(t, err, ErrEmailExist)
	})

	t.Run("登录成功签发令牌", func(t *testing.T) {
		token, user, err := svc.Login(ctx, &dto.LoginDTO{Username: "alice", Password: "secret-pw"})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, created.UserID, user.UserID)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &dto.LoginDTO{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, ErrPasswordIncorrect)
	})

	// 用户不存在与密码错误返回同一个错误，不暴露账号是否注册
	t.Run("用户不存在", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &dto.LoginDTO{Username: "nobody", Password: "x"})
		assert.ErrorIs(t, err, ErrPasswordIncorrect)
	})
}

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newUserServiceForTest(db)
	ctx := context.Background()

	user := seedUser(t, db, "bob")
	require.NoError(t, db.Model(user).Update("karma", 42).Error)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), profile.Karma)
	// 公开资料不含邮箱
	assert.Empty(t, profile.Email)

	byName, err := svc.GetProfileByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.UserID)

	_, err = svc.GetProfile(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
