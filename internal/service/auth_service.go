package service

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/jwt"
	"github.com/wshuai/interview_go_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUsernameExists     = errors.New("用户名已被使用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrProfileNotFound    = errors.New("用户不存在")
)

type AuthService struct {
	profileRepo *repository.ProfileRepository
	cfg         *config.Config
}

func NewAuthService(profileRepo *repository.ProfileRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		cfg:         cfg,
	}
}

// Register 注册新用户，默认候选人角色；面试官/管理员由管理员变更角色获得
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	exists, err := s.profileRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.profileRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	profile := &model.Profile{
		Username:          req.Username,
		Email:             &req.Email,
		PasswordHash:      &passwordStr,
		FullName:          req.FullName,
		Phone:             req.Phone,
		Role:              model.RoleCandidate,
		InterviewerStatus: model.InterviewerOffline,
	}

	if err := s.profileRepo.Create(profile); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		ProfileID: profile.ID,
	}, nil
}

// Login 登录并签发 Token
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	profile, err := s.profileRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if profile.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(profile.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:   token,
		Profile: BuildProfileInfo(profile),
	}, nil
}

// BuildProfileInfo 组装返回给前端的个人信息
func BuildProfileInfo(profile *model.Profile) *dto.ProfileInfo {
	info := &dto.ProfileInfo{
		ID:        profile.ID,
		Username:  profile.Username,
		FullName:  profile.FullName,
		Phone:     profile.Phone,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt.Format(time.RFC3339),
	}
	if profile.Email != nil {
		info.Email = *profile.Email
	}
	if profile.Role == model.RoleInterviewer {
		info.InterviewerStatus = profile.InterviewerStatus
	}
	return info
}
