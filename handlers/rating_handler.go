package handlers

import (
	"encoding/json"
	"net/http"

	"cat_connect/domain"
	"cat_connect/service"

	"github.com/cristalhq/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type RatingHandler struct {
	service  *application.RatingService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewRatingHandler(service *application.RatingService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *RatingHandler {
	return &RatingHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *RatingHandler) Init(router *mux.Router) {
	router.HandleFunc("/", handler.Rate).Methods("POST")
	router.HandleFunc("/seller/{sellerId}", handler.GetSellerSummary).Methods("GET")
}

func (handler *RatingHandler) Rate(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RatingHandler.Rate")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var rating domain.Rating
	err = json.NewDecoder(req.Body).Decode(&rating)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	rating.RaterID = caller.ID

	statusCode, err := handler.service.Rate(ctx, &rating)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *RatingHandler) GetSellerSummary(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RatingHandler.GetSellerSummary")
	defer span.End()

	vars := mux.Vars(req)
	sellerID, err := primitive.ObjectIDFromHex(vars["sellerId"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid seller ID", http.StatusBadRequest)
		return
	}

	summary, err := handler.service.GetSellerSummary(ctx, sellerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(summary, writer)
}
