package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarkartanmay393/aanandini-ecom/internal/config"
	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	"github.com/sarkartanmay393/aanandini-ecom/internal/notification"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"
)

const accessTokenTTL = 15 * time.Minute
const refreshTokenTTL = 30 * 24 * time.Hour
const otpTTL = 5 * time.Minute

type UserOutput struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}

type TokenOutput struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthOutput struct {
	User  UserOutput  `json:"user"`
	Token TokenOutput `json:"token"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type AuthUsecase struct {
	cfg    config.Config
	users  repo.UserRepository
	tokens repo.RefreshTokenRepository
	otps   repo.OtpRepository
	sender notification.Sender

	// overridable in tests
	now func() time.Time
}

func NewAuthUsecase(
	cfg config.Config,
	users repo.UserRepository,
	tokens repo.RefreshTokenRepository,
	otps repo.OtpRepository,
	sender notification.Sender,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:    cfg,
		users:  users,
		tokens: tokens,
		otps:   otps,
		sender: sender,
		now:    time.Now,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*AuthOutput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !looksLikeEmail(in.Email) {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return nil, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	existing, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return nil, NewHTTPError(http.StatusConflict, "email already registered")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Name:         in.Name,
		Email:        &in.Email,
		PasswordHash: string(pwHash),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		// unique race on email between the check and the insert
		return nil, NewHTTPError(http.StatusConflict, "email already registered")
	}

	return u.issueSession(ctx, user, "")
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput, userAgent string) (*AuthOutput, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	return u.issueSession(ctx, user, userAgent)
}

// Refresh rotates the refresh token. Presenting an already used token is
// treated as replay and revokes the whole session family.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenPlain string, userAgent string) (*AuthOutput, error) {
	if refreshTokenPlain == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	rt, err := u.tokens.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if rt.RevokedAt != nil || rt.ExpiresAt.Before(u.now()) {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if rt.UsedAt != nil {
		_ = u.tokens.RevokeAllForUser(ctx, rt.UserID)
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	if err := u.tokens.MarkUsed(ctx, rt.ID); err != nil {
		_ = u.tokens.RevokeAllForUser(ctx, rt.UserID)
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.issueSession(ctx, user, userAgent)
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenPlain string) error {
	if refreshTokenPlain == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	rt, err := u.tokens.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.tokens.Revoke(ctx, rt.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.activeUser(ctx, userID)
	if err != nil {
		return UserOutput{}, err
	}
	return toUserOutput(user), nil
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (UserOutput, error) {
	user, err := u.activeUser(ctx, userID)
	if err != nil {
		return UserOutput{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return UserOutput{}, NewHTTPError(http.StatusBadRequest, "name is required")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !looksLikeEmail(email) {
			return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
		}
		other, err := u.users.FindByEmail(ctx, email)
		if err != nil {
			return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if other != nil && other.ID != user.ID {
			return UserOutput{}, NewHTTPError(http.StatusConflict, "email already registered")
		}
		user.Email = &email
	}

	if err := u.users.Update(ctx, user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserOutput(user), nil
}

func (u *AuthUsecase) SendOtp(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if !looksLikePhone(phone) {
		return NewHTTPError(http.StatusBadRequest, "invalid phone")
	}

	code, err := notification.GenerateOtp()
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := u.otps.DeleteByPhone(ctx, phone); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.otps.Create(ctx, model.Otp{
		Phone:     phone,
		Code:      code,
		ExpiresAt: u.now().Add(otpTTL),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_ = u.sender.SendSMS(ctx, phone, "Your Aanandini login code is "+code)
	return nil
}

// VerifyOtp signs the caller in, creating a phone-only account on first use.
func (u *AuthUsecase) VerifyOtp(ctx context.Context, phone, code, userAgent string) (*AuthOutput, error) {
	phone = strings.TrimSpace(phone)
	if !looksLikePhone(phone) || code == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "phone and otp are required")
	}

	otp, err := u.otps.FindValid(ctx, phone, code, u.now())
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid or expired otp")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.otps.MarkVerified(ctx, otp.ID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user, err := u.users.FindByPhone(ctx, phone)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		user = &model.User{
			Name:     "Customer",
			Phone:    &phone,
			Role:     model.RoleCustomer,
			IsActive: true,
		}
		if err := u.users.Create(ctx, user); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	now := u.now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	return u.issueSession(ctx, user, userAgent)
}

func (u *AuthUsecase) activeUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "account disabled")
	}
	return user, nil
}

func (u *AuthUsecase) issueSession(ctx context.Context, user *model.User, userAgent string) (*AuthOutput, error) {
	access, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := u.tokens.Create(ctx, &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		UserAgent: userAgent,
		ExpiresAt: u.now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &AuthOutput{
		User: toUserOutput(user),
		Token: TokenOutput{
			AccessToken:  access,
			RefreshToken: refreshPlain,
			ExpiresIn:    expiresIn,
		},
	}, nil
}

func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int(accessTokenTTL.Seconds()), nil
}

func newRandomTokenAndHash() (plain string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(b)
	return plain, hashToken(plain), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".") && len(s) <= 255
}

func looksLikePhone(s string) bool {
	if len(s) < 10 || len(s) > 15 {
		return false
	}
	for i, r := range s {
		if r == '+' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func toUserOutput(user *model.User) UserOutput {
	return UserOutput{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
