package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"cat_connect/service"

	"github.com/cristalhq/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxWebhookBodyBytes = 64 << 10

type SubscriptionHandler struct {
	service  *application.SubscriptionService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewSubscriptionHandler(service *application.SubscriptionService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *SubscriptionHandler) Init(router *mux.Router) {
	router.HandleFunc("/plans", handler.GetPlans).Methods("GET")
	router.HandleFunc("/me", handler.GetMine).Methods("GET")
	router.HandleFunc("/checkout", handler.Checkout).Methods("POST")
	router.HandleFunc("/cancel", handler.Cancel).Methods("POST")
	router.HandleFunc("/webhook", handler.Webhook).Methods("POST")
}

func (handler *SubscriptionHandler) GetPlans(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SubscriptionHandler.GetPlans")
	defer span.End()

	plans, err := handler.service.GetPlans(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(plans, writer)
}

func (handler *SubscriptionHandler) GetMine(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SubscriptionHandler.GetMine")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	subscription, err := handler.service.GetByUser(ctx, caller.ID)
	if err != nil || subscription == nil {
		span.SetStatus(codes.Error, "subscription not found")
		http.Error(writer, "Subscription not found", http.StatusNotFound)
		return
	}

	jsonResponse(subscription, writer)
}

func (handler *SubscriptionHandler) Checkout(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SubscriptionHandler.Checkout")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		PlanID string `json:"planId"`
	}
	err = json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	planID, err := primitive.ObjectIDFromHex(payload.PlanID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid plan ID", http.StatusBadRequest)
		return
	}

	checkoutURL, statusCode, err := handler.service.Checkout(ctx, caller.ID, planID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("SubscriptionHandler.Checkout : %s", err)
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(map[string]string{"checkoutUrl": checkoutURL}, writer)
}

func (handler *SubscriptionHandler) Cancel(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SubscriptionHandler.Cancel")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	statusCode, err := handler.service.Cancel(ctx, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

// Webhook is called by Stripe, not by users. The raw body is needed intact
// for signature verification.
func (handler *SubscriptionHandler) Webhook(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SubscriptionHandler.Webhook")
	defer span.End()

	payload, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBodyBytes))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.HandleWebhook(ctx, payload, req.Header.Get("Stripe-Signature"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("SubscriptionHandler.Webhook : %s", err)
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}
