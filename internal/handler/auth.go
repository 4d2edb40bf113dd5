package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/middleware"
	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/service"
	"github.com/iliyamo/waste-pickup/internal/utils"
)

// TokenIssuer signs session tokens.  *utils.SessionIssuer satisfies it.
type TokenIssuer interface {
	Issue(subjectID uint64, role string) (utils.AccessToken, error)
}

// AuthHandler serves registration, login and profile endpoints for users and
// the admin.
type AuthHandler struct {
	Creds  *service.CredentialStore
	Tokens TokenIssuer
	Log    *logger.Logger
}

func NewAuthHandler(creds *service.CredentialStore, tokens TokenIssuer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{Creds: creds, Tokens: tokens, Log: log}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginReq struct {
	Password string `json:"password"`
}

type userView struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type tokenResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    *userView `json:"user,omitempty"`
}

// Register: POST /api/users/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, invalidBody())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.Creds.RegisterUser(ctx, req)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"userId": id})
}

// Login: POST /api/users/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, invalidBody())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.Creds.VerifyUser(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	tok, err := h.Tokens.Issue(id.ID, id.Role)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tokenResp{
		Token:   tok.Token,
		Expires: tok.Exp,
		User:    &userView{ID: id.ID, Name: id.Name, Email: id.Email, Role: id.Role},
	})
}

// AdminLogin: POST /api/admin/login
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, invalidBody())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.Creds.VerifyAdmin(ctx, req.Password)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	tok, err := h.Tokens.Issue(id.ID, id.Role)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tokenResp{Token: tok.Token, Expires: tok.Exp})
}

// Me: GET /api/users/me
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if middleware.Role(c) == model.RoleAdmin {
		return c.JSON(http.StatusOK, echo.Map{
			"user": userView{ID: uid, Name: model.AdminUsername, Role: model.RoleAdmin},
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.Creds.User(ctx, uid)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	created := u.CreatedAt
	return c.JSON(http.StatusOK, echo.Map{
		"user": userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: model.RoleUser, CreatedAt: &created},
	})
}
