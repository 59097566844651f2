package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Aliases kept short for call sites.
const (
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
)

// Molecule input error codes. Every one of them is a caller mistake.
const (
	ErrCodeEmptyAtomList       ErrorCode = "MOL_101"
	ErrCodeInvalidElement      ErrorCode = "MOL_102"
	ErrCodeInvalidCoordinate   ErrorCode = "MOL_103"
	ErrCodeInvalidChargeOrSpin ErrorCode = "MOL_104"
	ErrCodeInvalidMoleculeBody ErrorCode = "MOL_105"
)

// Simulation error codes
const (
	ErrCodeSimulationFailed ErrorCode = "SIM_001"
	ErrCodeRenderFailed     ErrorCode = "SIM_002"
)

// Prediction error codes
const (
	ErrCodeInvalidFeatures   ErrorCode = "PRD_001"
	ErrCodePredictionFailed  ErrorCode = "PRD_002"
	ErrCodeModelNotAvailable ErrorCode = "PRD_003"
)

// Messaging error codes
const (
	ErrCodePublishFailed   ErrorCode = "MSG_001"
	ErrCodePublisherClosed ErrorCode = "MSG_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusForbidden,

	ErrCodeEmptyAtomList:       http.StatusBadRequest,
	ErrCodeInvalidElement:      http.StatusBadRequest,
	ErrCodeInvalidCoordinate:   http.StatusBadRequest,
	ErrCodeInvalidChargeOrSpin: http.StatusBadRequest,
	ErrCodeInvalidMoleculeBody: http.StatusBadRequest,

	ErrCodeSimulationFailed: http.StatusInternalServerError,
	ErrCodeRenderFailed:     http.StatusInternalServerError,

	ErrCodeInvalidFeatures:   http.StatusBadRequest,
	ErrCodePredictionFailed:  http.StatusInternalServerError,
	ErrCodeModelNotAvailable: http.StatusInternalServerError,

	ErrCodePublishFailed:   http.StatusInternalServerError,
	ErrCodePublisherClosed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "Too many requests.",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeEmptyAtomList:       "Invalid molecule input. Atoms array is required.",
	ErrCodeInvalidElement:      "invalid element symbol",
	ErrCodeInvalidCoordinate:   "invalid atom coordinates",
	ErrCodeInvalidChargeOrSpin: "Charge and spin must be numbers.",
	ErrCodeInvalidMoleculeBody: "invalid molecule input",

	ErrCodeSimulationFailed: "Simulation failed",
	ErrCodeRenderFailed:     "rendering failed",

	ErrCodeInvalidFeatures:   "Invalid input: features object is required.",
	ErrCodePredictionFailed:  "prediction failed",
	ErrCodeModelNotAvailable: "ML model not available.",

	ErrCodePublishFailed:   "publish failed",
	ErrCodePublisherClosed: "publisher closed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
