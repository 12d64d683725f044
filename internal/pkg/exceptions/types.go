package exceptions

import (
	"fmt"
	"healnexus-service/internal/pkg/constvars"
)

var (
	ErrURLParamMissing = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamMissing, paramName))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerProcess)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrMissingSessionData = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevMissingSessionData)
	}

	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrSessionNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthSessionNotFound)
	}
	ErrNotAuthorizedRole = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, constvars.ErrDevAppointmentNotOwned)
	}

	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBDeleteDocument = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevDBFailedToDeleteDocument)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevDBFailedToIterateDocuments)
	}

	ErrRedisGet = func(err error, key string) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, fmt.Sprintf(constvars.ErrDevRedisGetNoData, key))
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevRedisSetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevRedisDelete)
	}
	ErrRedisExpire = func(err error) *CustomError {
		return BuildNewCustomError(joinUnavailable(err), constvars.StatusServiceUnavailable, constvars.ErrClientBookingBusy, constvars.ErrDevRedisExpire)
	}

	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}
	ErrMinioPutObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioPutObject, bucketName))
	}
)
