package auth

import (
	"errors"
	"strings"

	"doctor-manager-backend/internal/config"
	"doctor-manager-backend/internal/models"
	"doctor-manager-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uint            `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      models.UserRole `json:"role"`
	AvatarURL *string         `json:"avatarUrl"`
	Theme     models.Theme    `json:"theme"`
	Language  models.Language `json:"language"`
}

type LoginResponse struct {
	UserResponse
	Token string `json:"token"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		Theme:     user.Theme,
		Language:  user.Language,
	}
}

// LoginHandler implements the two-tier login policy. Emails on the
// configured editor list must present the exact configured password and get
// role editor. Every other email is accepted unconditionally as a viewer
// ("open viewer enrollment"). Either way a user row is provisioned on first
// login, and the same email always resolves to the same row.
func LoginHandler(cfg *config.Config, store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || !strings.Contains(body.Email, "@") {
			return fiber.NewError(fiber.StatusBadRequest, "email: a valid email address is required")
		}

		role := models.RoleViewer
		for _, editor := range cfg.EditorAccounts {
			if editor.Email != body.Email {
				continue
			}
			// A known editor email with the wrong password is rejected
			// outright, it must never fall through to viewer enrollment.
			if editor.Password != body.Password {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
			}
			role = models.RoleEditor
			break
		}

		user, err := store.UserByEmail(body.Email)
		if errors.Is(err, storage.ErrNotFound) {
			user, err = provisionUser(store, body.Email, body.Password, role)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
		}

		// An account enrolled as viewer before its email was added to the
		// editor list is promoted on its next successful editor login.
		if role == models.RoleEditor && user.Role != models.RoleEditor {
			if err := store.SetUserRole(user.ID, models.RoleEditor); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
			}
			user.Role = models.RoleEditor
		}

		token, err := GenerateToken(cfg.JWTSecret, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(LoginResponse{
			UserResponse: NewUserResponse(user),
			Token:        token,
		})
	}
}

func provisionUser(store *storage.Store, email, password string, role models.UserRole) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.SplitN(email, "@", 2)[0],
		Role:         role,
		Theme:        models.ThemeLight,
		Language:     models.LanguageArabic,
	}

	if err := store.CreateUser(user); err != nil {
		// Two first logins racing on the same email: the loser re-reads the
		// row the winner created.
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return store.UserByEmail(email)
		}
		return nil, err
	}
	return user, nil
}
