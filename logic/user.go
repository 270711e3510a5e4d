package logic

import (
	"context"
	"errors"
	"strings"

	"forumcore/dao"
	"forumcore/models"
	"forumcore/pkg/errorx"
	"forumcore/pkg/jwt"
	"forumcore/pkg/snowflake"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignUp 注册，密码以 bcrypt 哈希保存
func (s *Service) SignUp(ctx context.Context, p *models.ParamSignUp) (*models.User, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "用户名不能为空")
	}
	if p.RePassword != "" && p.RePassword != p.Password {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "两次输入的密码不一致")
	}
	exist, err := s.store.GetUserByName(ctx, username)
	if err != nil {
		return nil, serverBusy("store.GetUserByName failed", err, zap.String("username", username))
	}
	if exist != nil {
		return nil, errorx.ErrUserExist
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, serverBusy("bcrypt.GenerateFromPassword failed", err)
	}
	u := &models.User{
		UserID:     snowflake.GenID(),
		Username:   username,
		Password:   string(hash),
		CreateTime: s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, dao.ErrDuplicateKey) {
			return nil, errorx.ErrUserExist
		}
		return nil, serverBusy("store.CreateUser failed", err, zap.String("username", username))
	}
	return u, nil
}

// Login 校验密码并签发访问令牌和刷新令牌
func (s *Service) Login(ctx context.Context, p *models.ParamLogin) (u *models.User, aToken, rToken string, err error) {
	u, err = s.store.GetUserByName(ctx, strings.TrimSpace(p.Username))
	if err != nil {
		return nil, "", "", serverBusy("store.GetUserByName failed", err, zap.String("username", p.Username))
	}
	if u == nil {
		return nil, "", "", errorx.ErrUserNotExist
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(p.Password)); err != nil {
		return nil, "", "", errorx.ErrInvalidPassword
	}
	aToken, rToken, err = s.issueTokens(ctx, u)
	if err != nil {
		return nil, "", "", err
	}
	return u, aToken, rToken, nil
}

// RefreshToken 用刷新令牌换一对新令牌
func (s *Service) RefreshToken(ctx context.Context, rToken string) (string, string, error) {
	userID, err := jwt.ParseRefreshToken(rToken)
	if err != nil {
		return "", "", errorx.ErrInvalidToken
	}
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", serverBusy("store.GetUserByID failed", err, zap.Int64("user_id", userID))
	}
	if u == nil {
		return "", "", errorx.ErrInvalidToken
	}
	return s.issueTokens(ctx, u)
}

// issueTokens 签发令牌并写入令牌存储，实现单点登录
func (s *Service) issueTokens(ctx context.Context, u *models.User) (string, string, error) {
	aToken, rToken, err := jwt.GenToken(u.UserID, u.Username)
	if err != nil {
		return "", "", serverBusy("jwt.GenToken failed", err, zap.Int64("user_id", u.UserID))
	}
	if s.tokens != nil {
		err = s.tokens.SetUserToken(ctx, u.UserID, aToken, rToken, jwt.AccessTokenExpireDuration, jwt.RefreshTokenExpireDuration)
		if err != nil {
			return "", "", serverBusy("tokens.SetUserToken failed", err, zap.Int64("user_id", u.UserID))
		}
	}
	return aToken, rToken, nil
}

// GetUserProfile 公开的用户资料
func (s *Service) GetUserProfile(ctx context.Context, userID int64) (*models.UserBrief, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, serverBusy("store.GetUserByID failed", err, zap.Int64("user_id", userID))
	}
	if u == nil {
		return nil, errorx.ErrUserNotExist
	}
	return &models.UserBrief{UserID: u.UserID, Username: u.Username, Karma: u.Karma}, nil
}

// IsAdmin 是否在全局管理员白名单中
func (s *Service) IsAdmin(userID int64) bool {
	return s.admins.Contains(userID)
}
