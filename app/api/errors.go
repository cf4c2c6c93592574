package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"nfeditor/nfe"
	"nfeditor/types"

	"github.com/gofiber/fiber/v2"
)

func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		apiErr   Error
		valErr   types.ValidationError
		parseErr *nfe.ParseError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &apiErr):
		return c.Status(apiErr.Code).JSON(apiErr)
	case errors.As(err, &valErr):
		return c.Status(valErr.Status).JSON(valErr)
	case errors.As(err, &parseErr):
		apiErr = NewError(fiber.StatusUnprocessableEntity, parseErr.Error())
	case errors.Is(err, sql.ErrNoRows):
		apiErr = NewError(fiber.StatusNotFound, "resource not found")
	case errors.As(err, &fiberErr):
		apiErr = NewError(fiberErr.Code, fiberErr.Message)
	default:
		apiErr = NewError(fiber.StatusInternalServerError, err.Error())
	}

	slog.Warn("request failed", "method", c.Method(), "path", c.Path(), "code", apiErr.Code, "error", apiErr.Message)
	return c.Status(apiErr.Code).JSON(apiErr)
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the Error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid request",
	}
}

func ErrNoFile() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "no file selected",
	}
}

func ErrNoDocument() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "xml_str not provided",
	}
}

func ErrInvalidID() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid id given",
	}
}

func ErrNotFound[T any](arg T, resource string) Error {
	return Error{
		Code:    fiber.StatusNotFound,
		Message: fmt.Sprintf("%s with %v not found", resource, arg),
	}
}
