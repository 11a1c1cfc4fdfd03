package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mixtape/internal/apperrors"
	"mixtape/internal/models"
	"mixtape/internal/repositories"
)

// TokenPair is an access/refresh token set issued on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService handles registration, login, token issuance and Google
// sign-in.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 7 * 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a password account. Email and username collisions yield
// Conflict; the unique indexes backstop concurrent registrations.
func (s *AuthService) Register(email, username, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, apperrors.Conflict("email already registered")
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, apperrors.Conflict("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a password account by email.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if user.Password == "" {
		// Google-only account; no password to compare.
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	return user, nil
}

// IssueTokenPair signs a fresh access/refresh token pair for the user.
func (s *AuthService) IssueTokenPair(userID string) (TokenPair, error) {
	access, err := s.signToken(userID, "access", s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.signToken(userID, "refresh", s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Internal("failed to sign token", err)
	}
	return signed, nil
}

// VerifyAccess resolves an access token to a user id.
func (s *AuthService) VerifyAccess(tokenString string) (string, error) {
	return s.verify(tokenString, "access")
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	userID, err := s.verify(refreshToken, "refresh")
	if err != nil {
		return TokenPair{}, err
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return TokenPair{}, apperrors.Unauthorized("account no longer exists")
	}
	return s.IssueTokenPair(userID)
}

func (s *AuthService) verify(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.Unauthorized("invalid or expired token")
	}
	if claimType, _ := claims["type"].(string); claimType != wantType {
		return "", apperrors.Unauthorized("invalid token type")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", apperrors.Unauthorized("invalid or expired token")
	}
	return userID, nil
}

// Me returns the account behind a verified user id.
func (s *AuthService) Me(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// GoogleSignIn resolves a Google identity credential to an account,
// creating or linking one as needed.
//
// The credential is decoded without verifying its signature, matching the
// deployed behavior this service replaces. A verified-signature check
// against Google's JWKS belongs here before the claims are trusted any
// further.
func (s *AuthService) GoogleSignIn(credential string) (*models.User, error) {
	claims := jwt.MapClaims{}
	parser := new(jwt.Parser)
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return nil, apperrors.Unauthorized("invalid Google credential")
	}

	googleID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if googleID == "" || email == "" {
		return nil, apperrors.Unauthorized("invalid Google credential")
	}
	if !emailVerified(claims) {
		return nil, apperrors.Unauthorized("Google account email is not verified")
	}

	// Linking order: google id, then email, then a brand-new account.
	if user, err := s.userRepo.GetByGoogleID(googleID); err == nil {
		return user, nil
	}
	if user, err := s.userRepo.GetByEmail(email); err == nil {
		user.GoogleID = &googleID
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
		return user, nil
	}

	username, err := s.generateUsername(name)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    email,
		Username: username,
		GoogleID: &googleID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func emailVerified(claims jwt.MapClaims) bool {
	switch v := claims["email_verified"].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// generateUsername derives a unique username from a display name plus a
// random numeric suffix.
func (s *AuthService) generateUsername(displayName string) (string, error) {
	base := slugify(displayName)
	if base == "" {
		base = "user"
	}
	for attempt := 0; attempt < 5; attempt++ {
		candidate := fmt.Sprintf("%s%04d", base, rand.Intn(10000))
		taken, err := s.userRepo.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	// Extremely crowded namespace; fall back to something collision-free.
	return base + strings.ReplaceAll(uuid.New().String(), "-", "")[:8], nil
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if len(slug) > 20 {
		slug = slug[:20]
	}
	return slug
}
