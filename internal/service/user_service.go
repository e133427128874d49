package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/minio"
	"Agora/internal/pkg/redis"
	"Agora/internal/pkg/security"
	"Agora/internal/repository"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginDTO) (string, *dto.UserDTO, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	GetProfileByUsername(ctx context.Context, username string) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileDTO) error
	UploadAvatar(ctx context.Context, userID uint64, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.UserDTO, error) {
	if exist, err := s.userRepo.GetUserByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrUsernameExist
	}
	if exist, err := s.userRepo.GetUserByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrEmailExist
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}
	if req.Bio != "" {
		user.Bio = &req.Bio
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		// 预检无法挡住并发注册，靠唯一索引兜底
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrUsernameExist
		}
		return nil, err
	}

	log.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return toUserDTO(user, true), nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (string, *dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return "", nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, toUserDTO(user, true), nil
}

// Logout 把令牌签名写入 redis 拒绝名单，存活时长与令牌有效期一致
func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrParamInvalid
	}
	return redis.SetWithExpiration(ctx, consts.TokenDenyKey+signature, 1, security.JWTExpirationTime)
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user, false), nil
}

func (s *userServiceImpl) GetProfileByUsername(ctx context.Context, username string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user, false), nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileDTO) error {
	fields := map[string]interface{}{}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if len(fields) == 0 {
		return nil
	}
	return s.userRepo.UpdateProfile(ctx, userID, fields)
}

func (s *userServiceImpl) UploadAvatar(ctx context.Context, userID uint64, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	objectName := fmt.Sprintf("%d/%s-%s", userID, uuid.NewString(), filename)
	ref, err := minio.UploadAvatar(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err = s.userRepo.UpdateProfile(ctx, userID, map[string]interface{}{"avatar_url": ref}); err != nil {
		return "", err
	}

	// 旧头像异步清理，失败只记日志
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		old := *user.AvatarURL
		go func() {
			if err := minio.DeleteAvatar(context.Background(), old); err != nil {
				log.Warn("delete stale avatar failed", "object", old, "err", err)
			}
		}()
	}
	return minio.GetPublicURL(ref), nil
}

func toUserDTO(user *model.User, withEmail bool) *dto.UserDTO {
	d := &dto.UserDTO{}
	_ = copier.Copy(d, user)
	d.UserID = user.ID
	if !withEmail {
		d.Email = ""
	}
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		url := minio.GetPublicURL(*user.AvatarURL)
		d.AvatarURL = &url
	}
	if !user.CreatedAt.IsZero() {
		createdAt := user.CreatedAt
		d.CreatedAt = &createdAt
	}
	return d
}
