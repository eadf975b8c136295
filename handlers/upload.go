package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "no file uploaded")
	}

	filename, path, err := h.Files.Save(c.UserContext(), fileHeader)
	if err != nil {
		log.Printf("❌ [Upload] failed to store %q: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Printf("📁 [Upload] stored %q as %s (%d bytes)", fileHeader.Filename, filename, fileHeader.Size)
	return c.JSON(fiber.Map{
		"message":  "File uploaded successfully",
		"filename": filename,
		"path":     path,
	})
}
