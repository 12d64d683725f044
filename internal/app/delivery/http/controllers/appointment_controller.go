package controllers

import (
	"context"
	"errors"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/requests"
	"healnexus-service/internal/pkg/exceptions"
	"healnexus-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AppointmentController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
	SessionService     contracts.SessionService
	RequestTimeout     time.Duration
}

func NewAppointmentController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase, sessionService contracts.SessionService, requestTimeout time.Duration) *AppointmentController {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	return &AppointmentController{
		Log:                logger,
		AppointmentUsecase: appointmentUsecase,
		SessionService:     sessionService,
		RequestTimeout:     requestTimeout,
	}
}

// requestContext returns a context bounded by the request timeout that still
// carries the request id.
func (ctrl *AppointmentController) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), ctrl.RequestTimeout)
}

// callerUserID resolves the authenticated user id. It writes the error
// response itself and returns false when the request cannot continue.
func (ctrl *AppointmentController) callerUserID(w http.ResponseWriter, r *http.Request, method string) (string, string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AppointmentController." + method + " requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return "", "", false
	}

	sessionData, ok := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(string)
	if !ok {
		ctrl.Log.Error("AppointmentController."+method+" sessionData not found in context",
			zap.String(constvars.LoggingRequestIDKey, requestID))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingSessionData(nil))
		return "", "", false
	}

	session, err := ctrl.SessionService.ParseSessionData(r.Context(), sessionData)
	if err != nil {
		ctrl.Log.Error("AppointmentController."+method+" error parsing session data",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return "", "", false
	}

	ctrl.Log.Info("AppointmentController."+method+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID))
	return requestID, session.UserID, true
}

func (ctrl *AppointmentController) writeUsecaseError(w http.ResponseWriter, method, requestID string, err error) {
	ctrl.Log.Error("AppointmentController."+method+" AppointmentUsecase error",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err))

	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) && errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}

func (ctrl *AppointmentController) BookAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, userID, ok := ctrl.callerUserID(w, r, "BookAppointment")
	if !ok {
		return
	}

	request := new(requests.BookAppointment)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		ctrl.Log.Error("AppointmentController.BookAppointment error parsing request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.Log.Error("AppointmentController.BookAppointment validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	slotDate, err := utils.NormalizeSlotDate(request.SlotDate)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}
	slotTime, err := utils.NormalizeSlotTime(request.SlotTime)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.BookAppointment(ctx, &requests.BookAppointmentInput{
		UserID:   userID,
		DoctorID: request.DoctorID,
		SlotDate: slotDate,
		SlotTime: slotTime,
	})
	if err != nil {
		ctrl.writeUsecaseError(w, "BookAppointment", requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController.BookAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, response.AppointmentID))
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.BookAppointmentSuccessMessage, response)
}

func (ctrl *AppointmentController) ListPatientAppointments(w http.ResponseWriter, r *http.Request) {
	requestID, userID, ok := ctrl.callerUserID(w, r, "ListPatientAppointments")
	if !ok {
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.ListPatientAppointments(ctx, userID)
	if err != nil {
		ctrl.writeUsecaseError(w, "ListPatientAppointments", requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController.ListPatientAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(response)))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientAppointmentsSuccessMessage, response)
}

func (ctrl *AppointmentController) ListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	requestID, userID, ok := ctrl.callerUserID(w, r, "ListDoctorAppointments")
	if !ok {
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.ListDoctorAppointments(ctx, userID)
	if err != nil {
		ctrl.writeUsecaseError(w, "ListDoctorAppointments", requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController.ListDoctorAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(response)))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDoctorAppointmentsSuccessMessage, response)
}

func (ctrl *AppointmentController) ListBookedSlots(w http.ResponseWriter, r *http.Request) {
	requestID, _, ok := ctrl.callerUserID(w, r, "ListBookedSlots")
	if !ok {
		return
	}

	doctorID := chi.URLParam(r, constvars.URLParamDoctorID)
	if doctorID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing(nil, constvars.URLParamDoctorID))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.ListBookedSlots(ctx, doctorID)
	if err != nil {
		ctrl.writeUsecaseError(w, "ListBookedSlots", requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController.ListBookedSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(response)))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBookedSlotsSuccessMessage, response)
}

type appointmentAction func(ctx context.Context, appointmentID, userID string) (interface{}, error)

// handleAppointmentAction runs a state change on the appointment named in the URL.
func (ctrl *AppointmentController) handleAppointmentAction(w http.ResponseWriter, r *http.Request, method, successMessage string, action appointmentAction) {
	requestID, userID, ok := ctrl.callerUserID(w, r, method)
	if !ok {
		return
	}

	appointmentID := chi.URLParam(r, constvars.URLParamAppointmentID)
	if appointmentID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing(nil, constvars.URLParamAppointmentID))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := action(ctx, appointmentID, userID)
	if err != nil {
		ctrl.writeUsecaseError(w, method, requestID, err)
		return
	}

	ctrl.Log.Info("AppointmentController."+method+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, successMessage, response)
}

func (ctrl *AppointmentController) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	ctrl.handleAppointmentAction(w, r, "CancelAppointment", constvars.CancelAppointmentSuccessMessage,
		func(ctx context.Context, appointmentID, userID string) (interface{}, error) {
			return ctrl.AppointmentUsecase.CancelAppointment(ctx, appointmentID, userID)
		})
}

func (ctrl *AppointmentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctrl.handleAppointmentAction(w, r, "ConfirmPayment", constvars.ConfirmAppointmentSuccessMessage,
		func(ctx context.Context, appointmentID, userID string) (interface{}, error) {
			return ctrl.AppointmentUsecase.ConfirmPayment(ctx, appointmentID, userID)
		})
}

func (ctrl *AppointmentController) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	ctrl.handleAppointmentAction(w, r, "CompleteAppointment", constvars.CompleteAppointmentSuccessMessage,
		func(ctx context.Context, appointmentID, userID string) (interface{}, error) {
			return ctrl.AppointmentUsecase.CompleteAppointment(ctx, appointmentID, userID)
		})
}
