package service

import (
	"sync"
	"time"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceInterface 供处理器层和测试使用
type UserServiceInterface interface {
	Register(user *model.User, password string) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUser(user *model.User) error
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
}

// UserService 处理与用户相关的业务逻辑
// 核心服务把它当作已认证的身份提供方，不在这里之外校验凭证
type UserService struct {
	userRepo       interfaces.UserRepository
	emailService   *EmailService
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.RWMutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, emailService *EmailService) *UserService {
	return &UserService{
		userRepo:       userRepo,
		emailService:   emailService,
		tokenBlacklist: make(map[string]time.Time),
	}
}

// Register 注册新用户
func (s *UserService) Register(user *model.User, password string) error {
	existing, err := s.userRepo.FindByUsername(user.Username)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "username already exists")
	}

	existing, err = s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "email already registered")
	}

	if len(password) < 8 {
		return errors.New(errors.ErrWeakPassword, "密码长度至少8位")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	s.emailService.SendWelcomeEmail(user.Email, user.Username)
	return nil
}

// Login 用户登录
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Warn("用户登录失败，密码不正确", zap.String("email", email))
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// UpdateUser 更新用户资料
func (s *UserService) UpdateUser(user *model.User) error {
	existing, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	// 只更新资料字段
	if user.Username == "" {
		user.Username = existing.Username
	}
	if user.Email == "" {
		user.Email = existing.Email
	}
	if user.AvatarURL == "" {
		user.AvatarURL = existing.AvatarURL
	}
	if user.Bio == "" {
		user.Bio = existing.Bio
	}

	return s.userRepo.Update(user)
}

// DeleteAccount 注销账号
func (s *UserService) DeleteAccount(userID int) error {
	existing, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除用户失败", err)
	}

	util.Logger.Info("用户已注销", zap.Int("user_id", userID))
	return nil
}

// TotalUsers 返回注册用户总数
func (s *UserService) TotalUsers() (int, error) {
	return s.userRepo.Count()
}

// Logout 把令牌加入黑名单
func (s *UserService) Logout(token string) error {
	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()
	s.tokenBlacklist[token] = time.Now().Add(24 * time.Hour)
	return nil
}

// IsTokenBlacklisted 检查令牌是否已被撤销，顺带清理过期条目
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()

	expiry, ok := s.tokenBlacklist[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokenBlacklist, token)
		return false
	}
	return true
}
