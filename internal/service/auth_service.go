package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"talenthub/internal/domain"
	"talenthub/internal/domain/dto"
)

type AuthService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	jwtSecret   string
}

type Claims struct {
	UserID    uuid.UUID   `json:"user_id"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"session_id"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

const (
	AccessTokenDuration  = 1 * time.Hour
	RefreshTokenDuration = 30 * 24 * time.Hour
)

func NewAuthService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   jwtSecret,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.AuthResult, error) {
	if errs := domain.ValidateStruct(req); errs != nil {
		return nil, errs
	}

	role := domain.Role(req.Role)
	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "role must be jobseeker, employer or admin", domain.ErrInvalidField)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, domain.NewValidationError("email", "an account with this email already exists", domain.ErrInvalidField)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		HashedPassword: string(hashed),
		Role:           role,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.AuthResult, error) {
	if errs := domain.ValidateStruct(req); errs != nil {
		return nil, errs
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	sessionID := uuid.New().String()

	accessToken, err := s.signToken(user, sessionID, "access", AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.signToken(user, sessionID, "refresh", RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:           sessionID,
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(RefreshTokenDuration),
		CreatedAt:    time.Now(),
		LastUsedAt:   time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

func (s *AuthService) signToken(user *domain.User, sessionID, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: wrong token type", domain.ErrUnauthenticated)
	}
	if claims.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// ValidateAccessToken verifies the token signature and that the backing
// session is still alive, and returns the caller's identity.
func (s *AuthService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.Identity, error) {
	claims, err := s.parseToken(tokenString, "access")
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	if time.Now().After(session.ExpiresAt) {
		go s.sessionRepo.Delete(context.Background(), session.ID)
		return nil, domain.ErrUnauthenticated
	}

	go func() {
		if err := s.sessionRepo.UpdateLastUsed(context.Background(), claims.SessionID); err != nil {
			log.Warn().Err(err).Str("session_id", claims.SessionID).Msg("failed to update session last used")
		}
	}()

	return &domain.Identity{UserID: session.UserID, Role: session.Role}, nil
}

// Refresh rotates the refresh token: the old session is deleted and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.NewValidationError("refresh_token", "refresh token is required", domain.ErrRequired)
	}

	if _, err := s.parseToken(refreshToken, "refresh"); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	if time.Now().After(session.ExpiresAt) {
		go s.sessionRepo.Delete(context.Background(), session.ID)
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete rotated session")
	}
	return tokens, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
