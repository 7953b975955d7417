package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/config"
	"github.com/vmartins/escala-service/internal/repository"
	"github.com/vmartins/escala-service/internal/utils"
)

// AuthHandler bundles dependencies for the operator account endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // ADMIN | OPERATOR
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// issuePair mints an access/refresh token pair for the user and
// stores the refresh hash.  The raw refresh value goes back to the
// client and is never persisted.
func (h *AuthHandler) issuePair(ctx context.Context, id uint64, email, role string) (*authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	if err := h.Tokens.StoreRefresh(ctx, id, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, err
	}
	return &authResp{
		User:    userPart{ID: id, Email: email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}, nil
}

// Register handles POST /v1/auth/register.  New accounts default to
// the OPERATOR role; a token pair is returned immediately so the
// operator can start working without a second login call.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email/password required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != "ADMIN" && role != "OPERATOR" {
		role = "OPERATOR"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create user failed"})
	}

	resp, err := h.issuePair(ctx, uid, req.Email, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	resp, err := h.issuePair(ctx, u.ID, u.Email, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /v1/auth/refresh: the presented token is
// validated by hash, revoked, and replaced with a fresh pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load user failed"})
	}

	resp, err := h.issuePair(ctx, u.ID, u.Email, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// bearerSubject extracts the user id from a valid HS256 bearer token,
// if one is present.
func (h *AuthHandler) bearerSubject(c echo.Context) (uint64, bool) {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}
	tok, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), true
	case string:
		if id, err := strconv.ParseUint(sub, 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// Logout handles POST /v1/auth/logout.  With a bearer token and no
// body it revokes every session for that user; with a refresh_token
// in the body it revokes that single session.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, hasBearer := h.bearerSubject(c)

	// Invalid JSON just leaves the refresh token empty; the bearer
	// alone may still suffice.
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch {
	case hasBearer && refreshToken == "":
		if uid == 0 {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	case refreshToken != "":
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "provide Authorization header or refresh_token"})
}

// Me handles GET /v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
