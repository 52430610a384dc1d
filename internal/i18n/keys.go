// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthSynced       = "auth.synced"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"
	KeyUserRoleUpdated    = "user.role_updated"
	KeyUserStatusUpdated  = "user.status_updated"

	// Farms
	KeyFarmCreated  = "farm.created"
	KeyFarmUpdated  = "farm.updated"
	KeyFarmNotFound = "farm.not_found"

	// Seasons
	KeySeasonCreated   = "season.created"
	KeySeasonUpdated   = "season.updated"
	KeySeasonCompleted = "season.completed"
	KeySeasonNotFound  = "season.not_found"

	// Cultivation log
	KeyProcessRecorded = "process.recorded"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"

	// Orders
	KeyOrderCreated           = "order.created"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderStatusUpdated     = "order.status_updated"
	KeyOrderInvalidTransition = "order.invalid_transition"

	// Shipments
	KeyShipmentCreated           = "shipment.created"
	KeyShipmentNotFound          = "shipment.not_found"
	KeyShipmentDriverAssigned    = "shipment.driver_assigned"
	KeyShipmentStatusUpdated     = "shipment.status_updated"
	KeyShipmentInvalidTransition = "shipment.invalid_transition"
	KeyShipmentAlreadyExists     = "shipment.already_exists"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Notifications
	KeyNotificationRead    = "notification.read"
	KeyNotificationAllRead = "notification.all_read"

	// Reports
	KeyReportCreated  = "report.created"
	KeyReportResolved = "report.resolved"
	KeyReportNotFound = "report.not_found"
)
