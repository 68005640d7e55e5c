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

type ForumHandler struct {
	service  *application.ForumService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewForumHandler(service *application.ForumService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *ForumHandler {
	return &ForumHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *ForumHandler) Init(router *mux.Router) {
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/", handler.GetAll).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/{id}/comments", handler.AddComment).Methods("POST")
}

func (handler *ForumHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ForumHandler.Create")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var post domain.ForumPost
	err = json.NewDecoder(req.Body).Decode(&post)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	post.AuthorID = caller.ID

	saved, statusCode, err := handler.service.Create(ctx, &post)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(saved, writer)
}

func (handler *ForumHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ForumHandler.Get")
	defer span.End()

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := handler.service.Get(ctx, id)
	if err != nil || post == nil {
		span.SetStatus(codes.Error, "post not found")
		http.Error(writer, "Post not found", http.StatusNotFound)
		return
	}

	jsonResponse(post, writer)
}

func (handler *ForumHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ForumHandler.GetAll")
	defer span.End()

	posts, err := handler.service.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(posts, writer)
}

func (handler *ForumHandler) AddComment(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ForumHandler.AddComment")
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
		http.Error(writer, "Invalid post ID", http.StatusBadRequest)
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

	statusCode, err := handler.service.AddComment(ctx, id, caller.ID, payload.Text)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *ForumHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ForumHandler.Delete")
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
		http.Error(writer, "Invalid post ID", http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.Delete(ctx, id, caller.ID, caller.Role)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}
