package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error with a stable code
type ErrorInfo struct {
	Code    string // error code (see codes.go)
	Message string // user facing message
}

// ParseError turns a lower-level error into a code and a safe message.
// Sensitive driver detail never reaches the caller; the message only carries
// what the user can act on.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Postgres constraint errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 3. Network/connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unreachable. Please try again later",
		}
	}

	// 4. Fallback internal error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError maps unique constraint violations
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already registered",
		}
	}

	if strings.Contains(errLower, "nickname") || strings.Contains(errLower, "idx_users_nickname") {
		return ErrorInfo{
			Code:    AuthNicknameExists,
			Message: "This nickname is already taken",
		}
	}

	// duplicate (cart, item) pair - the row already exists
	if strings.Contains(errLower, "idx_cart_item") || strings.Contains(errLower, "cart_items") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This item is already in your cart",
		}
	}

	if strings.Contains(errLower, "carts") && strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A cart already exists for this user",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

// parseForeignKeyError maps foreign key violations
func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is still referenced and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "owner_id") || strings.Contains(errLower, "user_id") || strings.Contains(errLower, "sender_id") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The referenced user does not exist",
		}
	}
	if strings.Contains(errLower, "item_id") {
		return ErrorInfo{
			Code:    ItemNotFound,
			Message: "The referenced listing does not exist",
		}
	}
	if strings.Contains(errLower, "category_id") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "The referenced category does not exist",
		}
	}
	if strings.Contains(errLower, "conversation_id") {
		return ErrorInfo{
			Code:    ConversationNotFound,
			Message: "The referenced conversation does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

// parseNotNullError maps not-null violations to a required-field message
func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	for _, field := range []string{"email", "password", "name", "nickname", "description", "content"} {
		if strings.Contains(errLower, field) {
			return ErrorInfo{Code: ValidationRequired, Message: "The " + field + " field is required"}
		}
	}

	return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
}

func getNotFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "item"):
		return "Listing not found"
	case strings.Contains(context, "cart"):
		return "Cart item not found"
	case strings.Contains(context, "conversation"):
		return "Conversation not found"
	case strings.Contains(context, "message"):
		return "Message not found"
	case strings.Contains(context, "user"):
		return "User not found"
	case strings.Contains(context, "category"):
		return "Category not found"
	default:
		return "The requested record could not be found"
	}
}

func getDefaultErrorMessage(context string) string {
	if context != "" {
		return "Failed to " + context + ". Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// ParseAndRespond parses the error and writes the standard error body.
// Accepts the minimal JSON-writer interface so it stays testable
// without a full gin context.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
