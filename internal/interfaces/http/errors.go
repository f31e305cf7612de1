package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindBody parsea el JSON del cuerpo y aplica las reglas `validate` del DTO.
// Si falla ya escribió la respuesta 400 y devuelve false.
func bindBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "datos inválidos"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return "datos inválidos (" + strings.Join(parts, ", ") + ")"
}

// uuidParam devuelve el parámetro de ruta en forma canónica o ErrInvalidInput si no es un UUID.
func uuidParam(c *fiber.Ctx, name string) (string, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", fmt.Errorf("%w: %s debe ser un UUID", domain.ErrInvalidInput, name)
	}
	return id.String(), nil
}

// uuidQuery es como uuidParam para filtros opcionales: vacío se acepta.
func uuidQuery(c *fiber.Ctx, name string) (string, error) {
	raw := c.Query(name)
	if raw == "" {
		return "", nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s debe ser un UUID", domain.ErrInvalidInput, name)
	}
	return id.String(), nil
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code = fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrInvalidTransfer):
		status, code = fiber.StatusBadRequest, "INVALID_TRANSFER"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrPersistence):
		// Antes que InsufficientStock: un CHECK violado en BD es un fallo de persistencia.
		status, code = fiber.StatusServiceUnavailable, "PERSISTENCE"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		status, code = fiber.StatusConflict, "INVALID_STATE_TRANSITION"
	case errors.Is(err, domain.ErrUnknownStockLocation):
		status, code = fiber.StatusConflict, "UNKNOWN_STOCK_LOCATION"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError || status == fiber.StatusServiceUnavailable {
		msg = "error interno, reintente la operación"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
