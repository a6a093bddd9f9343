package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/repository"
	"github.com/wshuai/interview_go_server/internal/testutil"
)

func setupAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.ExpireHours = 24
	return NewAuthService(repository.NewProfileRepository(db), cfg)
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username: "zhangsan",
		Email:    "zhangsan@example.com",
		Password: "password123",
		FullName: "张三",
		Phone:    "13800138000",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupAuthService(t, db)

	resp, err := service.Register(registerRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.ProfileID)

	var profile model.Profile
	require.NoError(t, db.Where("id = ?", resp.ProfileID).First(&profile).Error)
	assert.Equal(t, model.RoleCandidate, profile.Role)
	require.NotNil(t, profile.PasswordHash)
	assert.NotEqual(t, "password123", *profile.PasswordHash) // 必须是哈希
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupAuthService(t, db)

	_, err := service.Register(registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Username = "lisi"
	_, err = service.Register(req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupAuthService(t, db)

	_, err := service.Register(registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Email = "other@example.com"
	_, err = service.Register(req)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupAuthService(t, db)

	_, err := service.Register(registerRequest())
	require.NoError(t, err)

	resp, err := service.Login(&dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "zhangsan", resp.Profile.Username)
	assert.Equal(t, model.RoleCandidate, resp.Profile.Role)
	assert.Empty(t, resp.Profile.InterviewerStatus) // 候选人不暴露面试官状态
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupAuthService(t, db)

	_, err := service.Register(registerRequest())
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupAuthService(t, db)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
