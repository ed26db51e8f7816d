package services

import (
	"errors"
	"unicode"

	"ridesafe-http-service/config"
	"ridesafe-http-service/models"
	"ridesafe-http-service/utils"

	"gorm.io/gorm"
)

// 用户服务错误
var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrUserExists       = errors.New("邮箱已被注册")
	ErrPasswordMismatch = errors.New("用户名或密码错误")
	ErrWeakPassword     = errors.New("密码至少8位，且需包含大写字母、小写字母和数字")
)

// InterfaceUserService 定义用户服务接口
// 用户资料管理属于外部协作方，这里只保留报警引擎
// 依赖的最小能力：注册（初始化默认报警条件）、登录、家庭住址维护
type InterfaceUserService interface {
	Register(user *models.User, plainPassword string) error
	Login(email, plainPassword string) (*models.User, error)
	UpdateHomeLocation(userID uint, home models.Coordinate) error
}

// UserService 提供用户注册登录相关服务
type UserService struct {
	DB         *gorm.DB
	Config     *config.Config
	Conditions InterfaceConditionService
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, cfg *config.Config, conditionService InterfaceConditionService) InterfaceUserService {
	return &UserService{
		DB:         db,
		Config:     cfg,
		Conditions: conditionService,
	}
}

// validatePasswordStrength 校验密码强度
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

// Register 注册新用户并初始化默认报警条件
func (s *UserService) Register(user *models.User, plainPassword string) error {
	if err := validatePasswordStrength(plainPassword); err != nil {
		return err
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.DB.Create(user).Error; err != nil {
		return err
	}

	// 默认报警条件初始化失败不回滚注册，记录日志后续可补救
	if err := s.Conditions.EnsureDefaultConditions(user.ID); err != nil {
		config.Warning("为用户 %d 初始化默认报警条件失败: %v", user.ID, err)
	}

	return nil
}

// Login 校验邮箱和密码，成功返回用户
func (s *UserService) Login(email, plainPassword string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 与密码错误返回同一错误，不泄露邮箱是否注册
		return nil, ErrPasswordMismatch
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(plainPassword, user.Password) {
		return nil, ErrPasswordMismatch
	}

	return &user, nil
}

// UpdateHomeLocation 更新用户的家庭住址坐标
func (s *UserService) UpdateHomeLocation(userID uint, home models.Coordinate) error {
	result := s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"home_latitude":  home.Latitude,
		"home_longitude": home.Longitude,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
