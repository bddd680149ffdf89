package api

const (
	CategoryDatabase     = ErrorCategory("Database")
	CategoryUser         = ErrorCategory("User") // used for errors related to user input, validation, etc.
	CategoryForbidden    = ErrorCategory("Forbidden")
	CategoryUnauthorized = ErrorCategory("Unauthorized")
	CategoryNotFound     = ErrorCategory("NotFound")
	CategoryInternal     = ErrorCategory("Internal") // used for internal server errors, not related to bad user input
)

const (
	// General

	ErrorCreateFailure            = ErrorKey("ErrorCreateFailure")
	ErrorDestroyFailure           = ErrorKey("ErrorDestroyFailure")
	ErrorGenericInternalServer    = ErrorKey("ErrorGenericInternalServer")
	ErrorFailedToConvertToAPIType = ErrorKey("ErrorFailedToConvertToAPIType")
	ErrorForeignKeyViolation      = ErrorKey("ErrorForeignKeyViolation")
	ErrorInvalidRequestBody       = ErrorKey("ErrorInvalidRequestBody")
	ErrorMustBeAValidUUID         = ErrorKey("ErrorMustBeAValidUUID")
	ErrorNoRows                   = ErrorKey("ErrorNoRows")
	ErrorNotAuthorized            = ErrorKey("ErrorNotAuthorized")
	ErrorQueryFailure             = ErrorKey("ErrorQueryFailure")
	ErrorSaveFailure              = ErrorKey("ErrorSaveFailure")
	ErrorTransactionNotFound      = ErrorKey("ErrorTransactionNotFound")
	ErrorUniqueKeyViolation       = ErrorKey("ErrorUniqueKeyViolation")
	ErrorUnknown                  = ErrorKey("ErrorUnknown")
	ErrorUpdateFailure            = ErrorKey("ErrorUpdateFailure")
	ErrorValidation               = ErrorKey("ErrorValidation")

	// Authentication
	ErrorAuthProvidersCallback = ErrorKey("ErrorAuthProvidersCallback")
	ErrorAuthProvidersLogout   = ErrorKey("ErrorAuthProvidersLogout")
	ErrorCreatingAccessToken   = ErrorKey("ErrorCreatingAccessToken")
	ErrorDeletingAccessToken   = ErrorKey("ErrorDeletingAccessToken")
	ErrorFindingAccessToken    = ErrorKey("ErrorFindingAccessToken")
	ErrorGettingAuthURL        = ErrorKey("ErrorGettingAuthURL")
	ErrorLoadingAuthProvider   = ErrorKey("ErrorLoadingAuthProvider")
	ErrorMissingAuthEmail      = ErrorKey("ErrorMissingAuthEmail")
	ErrorMissingLogoutToken    = ErrorKey("ErrorMissingLogoutToken")
	ErrorWithAuthUser          = ErrorKey("ErrorWithAuthUser")

	// Authorization
	ErrorInvalidResourceID = ErrorKey("ErrorInvalidResourceID")
	ErrorResourceNotFound  = ErrorKey("ErrorResourceNotFound")

	// File
	ErrorFileAlreadyLinked       = ErrorKey("ErrorFileAlreadyLinked")
	ErrorFilenameRequired        = ErrorKey("ErrorFilenameRequired")
	ErrorReceivingFile           = ErrorKey("ErrorReceivingFile")
	ErrorStoreFileBadContentType = ErrorKey("ErrorStoreFileBadContentType")
	ErrorStoreFileTooLarge       = ErrorKey("ErrorStoreFileTooLarge")
	ErrorUnableToReadFile        = ErrorKey("ErrorUnableToReadFile")
	ErrorUnableToStoreFile       = ErrorKey("ErrorUnableToStoreFile")

	// Project
	ErrorProjectFromContext  = ErrorKey("ErrorProjectFromContext")
	ErrorProjectHasTickets   = ErrorKey("ErrorProjectHasTickets")
	ErrorProjectInactive     = ErrorKey("ErrorProjectInactive")
	ErrorProjectInvalidInput = ErrorKey("ErrorProjectInvalidInput")

	// TNM ticket
	ErrorTicketFromContext      = ErrorKey("ErrorTicketFromContext")
	ErrorTicketStatus           = ErrorKey("ErrorTicketStatus")
	ErrorTicketNoLineItems      = ErrorKey("ErrorTicketNoLineItems")
	ErrorTicketLocked           = ErrorKey("ErrorTicketLocked")
	ErrorTicketMissingGCEmail   = ErrorKey("ErrorTicketMissingGCEmail")
	ErrorTicketNotAwaitingReply = ErrorKey("ErrorTicketNotAwaitingReply")

	// Line item
	ErrorLineItemInvalidInput = ErrorKey("ErrorLineItemInvalidInput")
	ErrorLineItemNotFound     = ErrorKey("ErrorLineItemNotFound")

	// Approval
	ErrorApprovalTokenExpired    = ErrorKey("ErrorApprovalTokenExpired")
	ErrorApprovalTokenNotFound   = ErrorKey("ErrorApprovalTokenNotFound")
	ErrorApprovalAlreadyRecorded = ErrorKey("ErrorApprovalAlreadyRecorded")
	ErrorApprovalInvalidDecision = ErrorKey("ErrorApprovalInvalidDecision")

	// Settings
	ErrorSettingsInvalidInput = ErrorKey("ErrorSettingsInvalidInput")
)
