package errors

// Error code constants returned in the response envelope.
// Format: CATEGORY_SPECIFIC_DETAIL; clients map these to messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountDeactivated = "AUTH_ACCOUNT_DEACTIVATED"
	AuthNotAuthenticated   = "NOT_AUTHENTICATED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	CategoryNotFound    = "CATEGORY_NOT_FOUND"
	CategoryHasProducts = "CATEGORY_HAS_PRODUCTS"

	// ==================== Cart ====================
	CartNotFound      = "CART_NOT_FOUND"
	CartItemNotFound  = "CART_ITEM_NOT_FOUND"
	InsufficientStock = "INSUFFICIENT_STOCK"
	EmptyCart         = "EMPTY_CART"

	// ==================== Orders ====================
	OrderNotFound       = "ORDER_NOT_FOUND"
	OrderCreated        = "ORDER_CREATED"
	OrderCreationFailed = "ORDER_CREATION_FAILED"
	OrderInvalidStatus  = "ORDER_INVALID_STATUS"

	// ==================== Addresses ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
