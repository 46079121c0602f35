package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarkartanmay393/aanandini-ecom/internal/config"
	"github.com/sarkartanmay393/aanandini-ecom/internal/middleware"
	"github.com/sarkartanmay393/aanandini-ecom/internal/usecase"
)

// Cookie lifetime matches the refresh token lifetime in the auth usecase.
const refreshCookieTTL = 30 * 24 * time.Hour

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	cookieSecure bool
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		cookieSecure: envBool("COOKIE_SECURE", true),
	}
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type OtpSendRequest struct {
	Phone string `json:"phone"`
}

type OtpVerifyRequest struct {
	Phone string `json:"phone"`
	Otp   string `json:"otp"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout)
	g.POST("/otp/send", h.sendOtp)
	g.POST("/otp/verify", h.verifyOtp)

	me := g.Group("/me")
	me.Use(middleware.AuthJWT(cfg))
	me.GET("", h.me)
	me.PUT("", h.updateProfile)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	h.setSessionCookies(c, out.Token.RefreshToken)
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req, c.Request().UserAgent())
	if err != nil {
		return writeError(c, err)
	}
	h.setSessionCookies(c, out.Token.RefreshToken)
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	token, err := h.refreshTokenFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing refresh token"})
	}

	out, err := h.uc.Refresh(c.Request().Context(), token, c.Request().UserAgent())
	if err != nil {
		return writeError(c, err)
	}
	h.setSessionCookies(c, out.Token.RefreshToken)
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	token, err := h.refreshTokenFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing refresh token"})
	}

	if err := h.uc.Logout(c.Request().Context(), token); err != nil {
		return writeError(c, err)
	}
	h.clearSessionCookies(c)
	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "logout success"})
}

// Browser clients carry the token in the refresh cookie; other clients
// send it in the body.
func (h *AuthHandler) refreshTokenFromRequest(c echo.Context) (string, error) {
	var req RefreshRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken, nil
	}
	cookie, err := c.Cookie("refresh")
	if err != nil || cookie.Value == "" {
		return "", echo.ErrBadRequest
	}
	return cookie.Value, nil
}

func (h *AuthHandler) sendOtp(c echo.Context) error {
	var req OtpSendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SendOtp(c.Request().Context(), req.Phone); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "otp sent"})
}

func (h *AuthHandler) verifyOtp(c echo.Context) error {
	var req OtpVerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.VerifyOtp(c.Request().Context(), req.Phone, req.Otp, c.Request().UserAgent())
	if err != nil {
		return writeError(c, err)
	}
	h.setSessionCookies(c, out.Token.RefreshToken)
	return c.JSON(http.StatusOK, out)
}

// The refresh cookie is HttpOnly; the csrf cookie is readable by the
// frontend and echoed back in a header on state-changing requests.
func (h *AuthHandler) setSessionCookies(c echo.Context, refreshToken string) {
	exp := time.Now().Add(refreshCookieTTL)

	c.SetCookie(&http.Cookie{
		Name:     "refresh",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})

	csrf := make([]byte, 32)
	if _, err := rand.Read(csrf); err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     "csrf_token",
		Value:    base64.RawURLEncoding.EncodeToString(csrf),
		Path:     "/",
		HttpOnly: false,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{"refresh", "csrf_token"} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: name == "refresh",
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) updateProfile(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateProfileInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
