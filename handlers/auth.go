package handlers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Username string           `json:"username"`
	Code     verificationCode `json:"code"`
}

// verificationCode accepts the code as a JSON string or a bare number.
// A number keeps its literal digits, so leading zeros are only preserved
// when the client sends a string.
type verificationCode string

func (v *verificationCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = verificationCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("code must be a string or a number")
	}
	*v = verificationCode(n.String())
	return nil
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.Users.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "User registered successfully",
		"userId":   u.ID,
		"username": u.Username,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.Auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Verification code sent",
		"userId":   u.ID,
		"username": u.Username,
	})
}

func (h *Handler) VerifyCode(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.Auth.VerifyCode(c.UserContext(), req.Username, string(req.Code))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Verification successful",
		"userId":   u.ID,
		"username": u.Username,
	})
}
