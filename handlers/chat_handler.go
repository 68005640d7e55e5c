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

type ChatHandler struct {
	service  *application.ChatService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewChatHandler(service *application.ChatService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *ChatHandler) Init(router *mux.Router) {
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/", handler.GetMine).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}/messages", handler.SendMessage).Methods("POST")
	router.HandleFunc("/{id}/status", handler.UpdateStatus).Methods("PATCH")
}

func (handler *ChatHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.Create")
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

	chat, statusCode, err := handler.service.Create(ctx, catID, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(chat, writer)
}

func (handler *ChatHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.Get")
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
		http.Error(writer, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	chat, statusCode, err := handler.service.Get(ctx, id, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	jsonResponse(chat, writer)
}

func (handler *ChatHandler) GetMine(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.GetMine")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := handler.service.GetByUser(ctx, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(chats, writer)
}

func (handler *ChatHandler) SendMessage(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.SendMessage")
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
		http.Error(writer, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	err = json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Text == "" {
		http.Error(writer, "text is required", http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.SendMessage(ctx, id, caller.ID, payload.Text)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *ChatHandler) UpdateStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.UpdateStatus")
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
		http.Error(writer, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	err = json.NewDecoder(req.Body).Decode(&payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	switch payload.Status {
	case domain.ChatCompleted, domain.ChatArchived, domain.ChatCancelled:
	default:
		http.Error(writer, "status must be completed, archived, or cancelled", http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.UpdateStatus(ctx, id, caller.ID, domain.ChatStatus(payload.Status))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}
