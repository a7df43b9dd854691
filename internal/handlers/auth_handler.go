package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"luxe/internal/apperror"
	"luxe/internal/middleware"
	"luxe/internal/services"
)

// CookieConfig controls the session cookies set at sign-in and refresh.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	authService  *services.AuthService
	resetService *services.PasswordResetService
	cookies      CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, resetService *services.PasswordResetService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		cookies:      cookies,
	}
}

// RegisterRoutes registers the account routes under /users.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	users := router.Group("/users")
	users.Post("/register", h.HandleRegister)
	users.Post("/signin", h.HandleSignin)
	users.Post("/refresh-token", h.HandleRefreshToken)
	users.Post("/forgot-password", h.HandleForgotPassword)
	users.Post("/reset-password", h.HandleResetPassword)

	users.Post("/logout", authRequired, h.HandleLogout)
	users.Get("/getuser", authRequired, h.HandleGetUser)
	users.Patch("/update-account", authRequired, h.HandleUpdateAccount)
	users.Patch("/update-avatar", authRequired, h.HandleUpdateAvatar)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.authService.RegisterUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "User registered successfully", user)
}

// HandleSignin authenticates a user and sets the session cookies.
func (h *AuthHandler) HandleSignin(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, pair, err := h.authService.LoginUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)
	return respond(c, fiber.StatusOK, "User logged in successfully", fiber.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// HandleLogout revokes the refresh token and clears the session cookies.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.LogoutUser(c.UserContext(), user.ID); err != nil {
		return err
	}
	h.clearSessionCookies(c)
	return respond(c, fiber.StatusOK, "User logged out", fiber.Map{})
}

// HandleRefreshToken exchanges a refresh token from the cookie or body for a new pair.
func (h *AuthHandler) HandleRefreshToken(c *fiber.Ctx) error {
	token := c.Cookies(middleware.RefreshTokenCookie)
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if len(c.Body()) > 0 {
			if err := parseBody(c, &body); err != nil {
				return err
			}
		}
		token = body.RefreshToken
	}

	_, pair, err := h.authService.RefreshSession(c.UserContext(), token)
	if err != nil {
		return err
	}
	h.setSessionCookies(c, pair)
	return respond(c, fiber.StatusOK, "Access token refreshed", pair)
}

// HandleGetUser returns the current user.
func (h *AuthHandler) HandleGetUser(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "User fetched successfully", middleware.CurrentUser(c))
}

// HandleForgotPassword always reports success so account existence is not revealed.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := h.resetService.RequestReset(c.UserContext(), body.Email); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "If the email is registered, a reset link has been sent", fiber.Map{})
}

// HandleResetPassword redeems a reset token.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var in services.ResetPasswordInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.resetService.ResetPassword(c.UserContext(), in); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password reset successfully", fiber.Map{})
}

// HandleUpdateAccount changes profile fields of the current user.
func (h *AuthHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	var in services.UpdateAccountInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.authService.UpdateAccount(c.UserContext(), middleware.CurrentUser(c).ID, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Account details updated successfully", user)
}

// HandleUpdateAvatar stores the multipart "avatar" file for the current user.
func (h *AuthHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	header, err := c.FormFile("avatar")
	if err != nil {
		return apperror.Validation("Avatar file is missing")
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	user, err := h.authService.UpdateAvatar(c.UserContext(), middleware.CurrentUser(c).ID, header.Filename, file)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Avatar image updated successfully", user)
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, pair services.TokenPair) {
	now := time.Now()
	c.Cookie(h.cookie(middleware.AccessTokenCookie, pair.AccessToken, now.Add(h.cookies.AccessTTL)))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, pair.RefreshToken, now.Add(h.cookies.RefreshTTL)))
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	past := time.Unix(0, 0)
	c.Cookie(h.cookie(middleware.AccessTokenCookie, "", past))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, "", past))
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
