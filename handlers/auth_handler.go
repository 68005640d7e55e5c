package handlers

import (
	"encoding/json"
	"net/http"

	"cat_connect/domain"
	"cat_connect/errors"
	"cat_connect/service"

	"github.com/cristalhq/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AuthHandler struct {
	service  *application.AuthService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/register", handler.Register).Methods("POST")
	router.HandleFunc("/login", handler.Login).Methods("POST")
	router.HandleFunc("/verifyAccount", handler.VerifyAccount).Methods("POST")
	router.HandleFunc("/resendVerify", handler.ResendVerification).Methods("POST")
	router.HandleFunc("/recoverPasswordToken", handler.SendRecoveryToken).Methods("POST")
	router.HandleFunc("/checkRecoverToken", handler.CheckRecoveryToken).Methods("POST")
	router.HandleFunc("/recoverPassword", handler.RecoverPassword).Methods("POST")
	router.HandleFunc("/changePassword", handler.ChangePassword).Methods("POST")
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var user domain.User
	err := json.NewDecoder(req.Body).Decode(&user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	username, statusCode, err := handler.service.Register(ctx, &user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("AuthHandler.Register : %s", err)
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(username, writer)
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var credentials domain.Credentials
	err := json.NewDecoder(req.Body).Decode(&credentials)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := handler.service.Login(ctx, &credentials)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		switch err.Error() {
		case errors.InvalidCredentials:
			http.Error(writer, err.Error(), http.StatusUnauthorized)
		case errors.NotVerificatedUser:
			http.Error(writer, err.Error(), http.StatusForbidden)
		default:
			http.Error(writer, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	jsonResponse(token, writer)
}

func (handler *AuthHandler) VerifyAccount(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.VerifyAccount")
	defer span.End()

	var validation domain.RegisterValidation
	err := json.NewDecoder(req.Body).Decode(&validation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	err = handler.service.AccountConfirmation(ctx, &validation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotAcceptable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) ResendVerification(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.ResendVerification")
	defer span.End()

	var request domain.ResendVerificationRequest
	err := json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	err = handler.service.ResendVerificationToken(ctx, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotAcceptable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) SendRecoveryToken(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.SendRecoveryToken")
	defer span.End()

	var payload struct {
		Email string `json:"email"`
	}
	err := json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	userID, statusCode, err := handler.service.SendRecoveryPasswordToken(ctx, payload.Email)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(userID, writer)
}

func (handler *AuthHandler) CheckRecoveryToken(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.CheckRecoveryToken")
	defer span.End()

	var request domain.RegisterValidation
	err := json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	err = handler.service.CheckRecoveryPasswordToken(ctx, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotAcceptable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) RecoverPassword(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.RecoverPassword")
	defer span.End()

	var request domain.RecoverPasswordRequest
	err := json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	err = handler.service.RecoverPassword(ctx, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotAcceptable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) ChangePassword(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.ChangePassword")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var password domain.PasswordChange
	err = json.NewDecoder(req.Body).Decode(&password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	status, statusCode, err := handler.service.ChangePassword(ctx, password, caller.Username)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("AuthHandler.ChangePassword : %s", err)

		var errorMessage string
		switch status {
		case "oldPassErr":
			errorMessage = "Old password is incorrect"
		case "newPassErr":
			errorMessage = "New password does not meet the requirements"
		case "baseErr":
			errorMessage = "Internal server error"
		default:
			errorMessage = err.Error()
		}

		http.Error(writer, errorMessage, statusCode)
		return
	}

	writer.WriteHeader(http.StatusOK)
}
