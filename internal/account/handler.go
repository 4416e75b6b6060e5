package account

import (
	"errors"
	"strings"

	"doctor-manager-backend/internal/auth"
	"doctor-manager-backend/internal/models"
	"doctor-manager-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UpdateAccountRequest struct {
	UserID    uint    `json:"userId"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	AvatarURL *string `json:"avatarUrl"`
	Theme     *string `json:"theme"`
	Language  *string `json:"language"`
}

// PATCH /api/account (any authenticated user, own account only)
func UpdateAccountHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.UserID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "userId: required")
		}

		userIDVal := c.Locals(auth.CtxUserIDKey)
		userID, ok := userIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Could not resolve user")
		}
		if body.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "You can only update your own account")
		}

		updates := storage.AccountUpdates{
			AvatarURL: body.AvatarURL,
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name: must not be empty")
			}
			updates.Name = &name
		}

		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" || !strings.Contains(email, "@") {
				return fiber.NewError(fiber.StatusBadRequest, "email: a valid email address is required")
			}
			updates.Email = &email
		}

		if body.Password != nil {
			if *body.Password == "" {
				return fiber.NewError(fiber.StatusBadRequest, "password: must not be empty")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
			}
			hashStr := string(hash)
			updates.PasswordHash = &hashStr
		}

		if body.Theme != nil {
			theme := models.Theme(*body.Theme)
			if theme != models.ThemeLight && theme != models.ThemeDark {
				return fiber.NewError(fiber.StatusBadRequest, "theme: must be 'light' or 'dark'")
			}
			updates.Theme = &theme
		}

		if body.Language != nil {
			language := models.Language(*body.Language)
			if language != models.LanguageArabic && language != models.LanguageEnglish {
				return fiber.NewError(fiber.StatusBadRequest, "language: must be 'ar' or 'en'")
			}
			updates.Language = &language
		}

		user, err := store.UpdateUser(body.UserID, updates)
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusConflict, "Email already in use")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update account")
		}

		return c.JSON(auth.NewUserResponse(user))
	}
}
