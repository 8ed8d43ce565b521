package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo is a classified persistence error: a stable code plus a
// message safe to show to clients. Raw driver detail never leaves here.
type ErrorInfo struct {
	Code    string
	Message string
}

// PostgreSQL SQLSTATE classes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError classifies a persistence error into a user-facing code and
// message. context names the entity being operated on ("product",
// "order", ...) and steers the not-found and fallback messages.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Driver-level classification by SQLSTATE when the postgres driver
	// surfaces a typed error.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseUniqueViolation(pqErr.Constraint + " " + pqErr.Detail)
		case pgForeignKeyViolation:
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Operation conflicts with related data",
			}
		case pgNotNullViolation:
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "A required field is missing",
			}
		case pgCheckViolation:
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: "Invalid input",
			}
		}
	}

	// Fallback string matching for drivers that do not expose SQLSTATE
	// (the sqlite test driver among them).
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint"):
		return parseUniqueViolation(errStr)
	case strings.Contains(errStr, "foreign key constraint"):
		return ErrorInfo{Code: ResourceConflict, Message: "Operation conflicts with related data"}
	case strings.Contains(errStr, "not-null constraint") || strings.Contains(errStr, "not null constraint"):
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	case strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "timeout"):
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Service temporarily unavailable. Please try again later.",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultErrorMessage(context),
	}
}

// ParseAndRespond classifies err and writes the standard envelope with a
// status matching the classification. For controller fallback branches
// after the sentinel checks.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)

	status := http.StatusInternalServerError
	switch info.Code {
	case ResourceNotFound:
		status = http.StatusNotFound
	case AuthEmailAlreadyExists, ResourceAlreadyExists, ResourceConflict:
		status = http.StatusConflict
	case ValidationRequired, ValidationInvalidInput:
		status = http.StatusBadRequest
	}

	RespondWithError(c, status, info.Code, info.Message)
}

func parseUniqueViolation(detail string) ErrorInfo {
	detail = strings.ToLower(detail)
	if strings.Contains(detail, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
}

func notFoundMessage(context string) string {
	switch strings.ToLower(context) {
	case "user":
		return "User not found"
	case "product":
		return "Product not found"
	case "category":
		return "Category not found"
	case "cart", "cart_item":
		return "Cart item not found"
	case "order":
		return "Order not found"
	case "address":
		return "Address not found"
	}
	return "Requested resource not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create. Please try again later."
	case strings.Contains(contextLower, "update"):
		return "Failed to update. Please try again later."
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete. Please try again later."
	}
	return "Something went wrong. Please try again later."
}
