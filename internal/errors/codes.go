package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthNicknameExists     = "AUTH_NICKNAME_EXISTS"     // duplicate nickname
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // bad reset token
	AuthResetTokenExpired  = "AUTH_RESET_TOKEN_EXPIRED" // expired reset token

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"     // no access
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED" // no permission for action
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"    // owner only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad format
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // missing resource
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate resource
	ResourceConflict      = "RESOURCE_CONFLICT"       // conflicting state

	// ==================== Listings (ITEM_) ====================
	ItemNotFound     = "ITEM_NOT_FOUND"     // missing or inactive item
	CategoryNotFound = "CATEGORY_NOT_FOUND" // missing category
	ItemInvalidType  = "ITEM_INVALID_TYPE"  // not swap/donate/rent
	ItemInvalidPrice = "ITEM_INVALID_PRICE" // negative price

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND" // missing cart row

	// ==================== Messaging (CHAT_) ====================
	ConversationNotFound      = "CHAT_CONVERSATION_NOT_FOUND" // missing conversation
	MessageNotFound           = "CHAT_MESSAGE_NOT_FOUND"      // missing message
	MessageEmpty              = "CHAT_MESSAGE_EMPTY"          // blank content
	SelfConversationForbidden = "CHAT_SELF_FORBIDDEN"         // own item

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // server error
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB error
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // external API error
)
