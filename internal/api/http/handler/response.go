package handler

import "github.com/gofiber/fiber/v3"

// Error bodies carry both the message and the numeric status so API
// clients never have to read the HTTP status line.

func ok(c fiber.Ctx, data any) error {
	return c.JSON(data)
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func errorResponse(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg, "status": status})
}

func badRequest(c fiber.Ctx, msg string) error {
	return errorResponse(c, fiber.StatusBadRequest, msg)
}

func forbidden(c fiber.Ctx, msg string) error {
	return errorResponse(c, fiber.StatusForbidden, msg)
}

func notFound(c fiber.Ctx, msg string) error {
	return errorResponse(c, fiber.StatusNotFound, msg)
}

func conflict(c fiber.Ctx, msg string) error {
	return errorResponse(c, fiber.StatusConflict, msg)
}

func internalError(c fiber.Ctx) error {
	return errorResponse(c, fiber.StatusInternalServerError, "internal server error")
}
