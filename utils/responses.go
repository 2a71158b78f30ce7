package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"studyhub/apperr"
)

// SuccessResponse is the envelope for successful JSON replies.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed JSON replies.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Entity  string `json:"entity,omitempty"`
	ID      string `json:"id,omitempty"`
}

// Success writes a success envelope with the given status.
func Success(c *fiber.Ctx, status int, data interface{}, message ...string) error {
	response := SuccessResponse{
		Success: true,
		Data:    data,
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	return c.Status(status).JSON(response)
}

// Created sends a 201 Created envelope.
func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

// Error writes an error envelope with the given status.
func Error(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		response.Entity = appErr.Entity
		response.ID = appErr.ID
	}
	return c.Status(status).JSON(response)
}

// FromError maps the error taxonomy onto HTTP statuses and writes the reply.
func FromError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Error(c, fiberErr.Code, err)
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return Error(c, fiber.StatusBadRequest, err)
	case apperr.KindNotFound:
		return Error(c, fiber.StatusNotFound, err)
	case apperr.KindConflict:
		return Error(c, fiber.StatusConflict, err)
	case apperr.KindDependency:
		return Error(c, fiber.StatusBadGateway, err)
	}
	return Error(c, fiber.StatusInternalServerError, err)
}
