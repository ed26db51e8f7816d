package services

import (
	"testing"

	"ridesafe-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (InterfaceUserService, InterfaceConditionService) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	conditions := NewConditionService(db, cfg, nil)
	return NewUserService(db, cfg, conditions), conditions
}

func TestRegisterCreatesDefaultConditions(t *testing.T) {
	svc, conditions := newUserService(t)

	user := &models.User{Name: "Alice", Email: "alice@example.com", Phone: "13800000001"}
	require.NoError(t, svc.Register(user, "Secret123"))
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "Secret123", user.Password)

	// 注册后默认报警条件已就位
	cond, err := conditions.GetConditions(user.ID)
	require.NoError(t, err)
	require.NotNil(t, cond)
	assert.Equal(t, 10.0, cond.DistanceThreshold)
	assert.Equal(t, 120.0, cond.SpeedThreshold)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newUserService(t)
	user := &models.User{Name: "Bob", Email: "bob@example.com", Phone: "1"}

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		err := svc.Register(user, password)
		assert.ErrorIs(t, err, ErrWeakPassword, "password %q", password)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)

	first := &models.User{Name: "Alice", Email: "dup@example.com", Phone: "1"}
	require.NoError(t, svc.Register(first, "Secret123"))

	second := &models.User{Name: "Eve", Email: "dup@example.com", Phone: "2"}
	err := svc.Register(second, "Secret456")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	svc, _ := newUserService(t)

	user := &models.User{Name: "Alice", Email: "alice@example.com", Phone: "1"}
	require.NoError(t, svc.Register(user, "Secret123"))

	got, err := svc.Login("alice@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// 密码错误与邮箱未注册返回同一错误
	_, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	_, err = svc.Login("nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestUpdateHomeLocation(t *testing.T) {
	svc, conditions := newUserService(t)

	user := &models.User{Name: "Alice", Email: "alice@example.com", Phone: "1"}
	require.NoError(t, svc.Register(user, "Secret123"))

	require.NoError(t, svc.UpdateHomeLocation(user.ID, models.Coordinate{Latitude: 31.2, Longitude: 121.5}))

	home, err := conditions.GetHomeLocation(user.ID)
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Equal(t, 31.2, home.Latitude)
	assert.Equal(t, 121.5, home.Longitude)

	assert.ErrorIs(t, svc.UpdateHomeLocation(999, models.Coordinate{Latitude: 1, Longitude: 1}), ErrUserNotFound)
}
