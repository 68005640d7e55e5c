package handlers

import (
	"net/http"

	"cat_connect/errors"
	"cat_connect/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type MatchmakingHandler struct {
	service *application.MatchmakingService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewMatchmakingHandler(service *application.MatchmakingService, tracer trace.Tracer, logger *logrus.Logger) *MatchmakingHandler {
	return &MatchmakingHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *MatchmakingHandler) Init(router *mux.Router) {
	router.HandleFunc("/{userId}", handler.Matchmaking).Methods("GET")
}

func (handler *MatchmakingHandler) Matchmaking(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MatchmakingHandler.Matchmaking")
	defer span.End()

	vars := mux.Vars(req)
	userID, err := primitive.ObjectIDFromHex(vars["userId"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}

	cats, statusCode, err := handler.service.Matchmaking(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("MatchmakingHandler.Matchmaking : %s", err)
		if statusCode == http.StatusNotFound {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusNotFound)
			jsonError(errors.MatchmakingNotFound, writer)
			return
		}
		http.Error(writer, err.Error(), statusCode)
		return
	}

	jsonResponse(cats, writer)
}
