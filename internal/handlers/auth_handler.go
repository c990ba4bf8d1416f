package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskflow/internal/dto"
	"taskflow/internal/middleware"
	"taskflow/internal/notify"
	"taskflow/internal/services"
)

const maxAvatarSize = 5 * 1024 * 1024

var validate = validator.New()

type AuthHandler struct {
	authService *services.AuthService
	notifier    *notify.Notifier
}

func NewAuthHandler(authService *services.AuthService, notifier *notify.Notifier) *AuthHandler {
	return &AuthHandler{authService: authService, notifier: notifier}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(registerValidationMessage(err)))
	}

	user, token, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Error("User with this email already exists"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error during registration"))
	}

	h.notifier.UserRegistered(user)

	return c.Status(fiber.StatusCreated).JSON(dto.OK("User registered successfully", dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Email and password are required"))
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Invalid email or password"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error during login"))
	}

	return c.JSON(dto.OK("Login successful", dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Error("User not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error"))
	}

	return c.JSON(dto.OK("", fiber.Map{"user": dto.NewUserResponse(user)}))
}

func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Please upload a file"))
	}
	if fileHeader.Size > maxAvatarSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Image must be smaller than 5MB"))
	}
	if !allowedImageExt(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Please upload an image (jpg, jpeg, png, webp)"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Unable to read uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Unable to read uploaded file"))
	}

	if err := h.authService.UpdateAvatar(userID, data); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Error("User not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Error uploading avatar"))
	}

	return c.JSON(dto.OK("Avatar uploaded successfully", nil))
}

// GetAvatar serves avatar bytes by user id. Public: avatar ids are opaque
// UUIDs and images carry no other user data.
func (h *AuthHandler) GetAvatar(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Avatar not found"))
	}

	data, err := h.authService.GetAvatar(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Avatar not found"))
	}

	c.Set(fiber.HeaderContentType, http.DetectContentType(data))
	return c.Send(data)
}

func allowedImageExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

func registerValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request body"
	}

	switch fieldErrs[0].Field() {
	case "Name":
		return "Name must be between 2 and 100 characters"
	case "Email":
		return "Please provide a valid email"
	case "Password":
		return "Password must be at least 6 characters long"
	}
	return "Invalid request body"
}
