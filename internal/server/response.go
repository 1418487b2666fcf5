package server

import (
	"github.com/gofiber/fiber/v3"
)

// jsonSuccess заворачивает данные в стандартный конверт ответа.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError возвращает ошибку с заданным HTTP статусом.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
