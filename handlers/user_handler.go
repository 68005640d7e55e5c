package handlers

import (
	"encoding/json"
	"net/http"

	"cat_connect/domain"
	"cat_connect/errors"
	"cat_connect/service"

	"github.com/cristalhq/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type UserHandler struct {
	service  *application.UserService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewUserHandler(service *application.UserService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *UserHandler) Init(router *mux.Router) {
	router.HandleFunc("/profile", handler.Profile).Methods("GET")
	router.HandleFunc("/preferences", handler.UpdatePreferences).Methods("PUT")
	router.HandleFunc("/location", handler.UpdateLocation).Methods("PUT")
	router.HandleFunc("/getOne/{username}", handler.GetOne).Methods("GET")
	router.HandleFunc("/mailExist/{mail}", handler.MailExist).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.UpdateUser).Methods("PATCH")
	router.HandleFunc("/{id}", handler.DeleteAccount).Methods("DELETE")
}

func (handler *UserHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.Get")
	defer span.End()

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := handler.service.Get(ctx, id)
	if err != nil || user == nil {
		span.SetStatus(codes.Error, "user not found")
		http.Error(writer, "User not found", http.StatusNotFound)
		return
	}

	user.Password = ""
	jsonResponse(user, writer)
}

func (handler *UserHandler) GetOne(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.GetOne")
	defer span.End()

	vars := mux.Vars(req)
	user, err := handler.service.GetOneUser(ctx, vars["username"])
	if err != nil || user == nil {
		span.SetStatus(codes.Error, "user not found")
		http.Error(writer, "User not found", http.StatusNotFound)
		return
	}

	user.Password = ""
	jsonResponse(user, writer)
}

func (handler *UserHandler) Profile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.Profile")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := handler.service.Get(ctx, caller.ID)
	if err != nil || user == nil {
		span.SetStatus(codes.Error, "user not found")
		http.Error(writer, "User not found", http.StatusNotFound)
		return
	}

	user.Password = ""
	jsonResponse(user, writer)
}

func (handler *UserHandler) MailExist(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.MailExist")
	defer span.End()

	vars := mux.Vars(req)
	id, err := handler.service.DoesEmailExist(ctx, vars["mail"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusNotFound)
		return
	}

	jsonResponse(id, writer)
}

func (handler *UserHandler) UpdateUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UpdateUser")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(req)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if userID != caller.ID {
		http.Error(writer, "Cannot update another user's profile", http.StatusForbidden)
		return
	}

	existingUser, err := handler.service.Get(ctx, userID)
	if err != nil || existingUser == nil {
		span.SetStatus(codes.Error, "user not found")
		http.Error(writer, "User not found", http.StatusNotFound)
		return
	}

	var updatePayload map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&updatePayload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if newEmail, ok := updatePayload["email"].(string); ok && newEmail != existingUser.Email {
		if _, err := handler.service.DoesEmailExist(ctx, newEmail); err == nil {
			span.SetStatus(codes.Error, errors.EmailAlreadyExist)
			http.Error(writer, errors.EmailAlreadyExist, http.StatusConflict)
			return
		}
	}

	// identity and access fields never change through a profile patch
	for key := range updatePayload {
		switch key {
		case "id", "username", "role", "verified", "password", "location", "preferences":
			delete(updatePayload, key)
		}
	}

	if err := mapstructure.Decode(updatePayload, &existingUser); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	updatedUser, err := handler.service.UpdateUser(ctx, existingUser)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	updatedUser.Password = ""
	jsonResponse(updatedUser, writer)
}

func (handler *UserHandler) UpdatePreferences(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UpdatePreferences")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var preferences domain.Preferences
	err = json.NewDecoder(req.Body).Decode(&preferences)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	err = handler.service.UpdatePreferences(ctx, caller.ID, &preferences)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *UserHandler) UpdateLocation(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UpdateLocation")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		PostalCode  string `json:"postalCode"`
		CountryCode string `json:"countryCode"`
	}
	err = json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.PostalCode == "" || payload.CountryCode == "" {
		http.Error(writer, "postalCode and countryCode are required", http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.UpdateLocation(ctx, caller.ID, payload.PostalCode, payload.CountryCode)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("UserHandler.UpdateLocation : %s", err)
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *UserHandler) DeleteAccount(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.DeleteAccount")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(req)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if userID != caller.ID && caller.Role != domain.RoleAdmin {
		http.Error(writer, "Cannot delete another user's account", http.StatusForbidden)
		return
	}

	statusCode, err := handler.service.DeleteAccount(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}
