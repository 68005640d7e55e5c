package handlers

import (
	"encoding/json"
	"net/http"

	"cat_connect/service"

	"github.com/cristalhq/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AdoptionHandler struct {
	service  *application.AdoptionService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewAdoptionHandler(service *application.AdoptionService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *AdoptionHandler {
	return &AdoptionHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *AdoptionHandler) Init(router *mux.Router) {
	router.HandleFunc("/", handler.Start).Methods("POST")
	router.HandleFunc("/payments", handler.GetPayments).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}/complete", handler.Complete).Methods("POST")
}

func (handler *AdoptionHandler) Start(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdoptionHandler.Start")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		CatID string `json:"catId"`
	}
	err = json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	catID, err := primitive.ObjectIDFromHex(payload.CatID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	adoption, statusCode, err := handler.service.Start(ctx, catID, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(adoption, writer)
}

func (handler *AdoptionHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdoptionHandler.Get")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid adoption ID", http.StatusBadRequest)
		return
	}

	adoption, err := handler.service.Get(ctx, id)
	if err != nil || adoption == nil {
		span.SetStatus(codes.Error, "adoption not found")
		http.Error(writer, "Adoption not found", http.StatusNotFound)
		return
	}
	if adoption.SellerID != caller.ID && adoption.AdopterID != caller.ID {
		http.Error(writer, "Not a party to this adoption", http.StatusForbidden)
		return
	}

	jsonResponse(adoption, writer)
}

func (handler *AdoptionHandler) Complete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdoptionHandler.Complete")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid adoption ID", http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.Complete(ctx, id, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("AdoptionHandler.Complete : %s", err)
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *AdoptionHandler) GetPayments(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdoptionHandler.GetPayments")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	payments, err := handler.service.GetPaymentsByPayer(ctx, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(payments, writer)
}
