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

type MeetupHandler struct {
	service  *application.MeetupService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewMeetupHandler(service *application.MeetupService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *MeetupHandler {
	return &MeetupHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *MeetupHandler) Init(router *mux.Router) {
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/", handler.GetAll).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *MeetupHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MeetupHandler.Create")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var meetup domain.Meetup
	err = json.NewDecoder(req.Body).Decode(&meetup)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	meetup.OrganizerID = caller.ID

	saved, statusCode, err := handler.service.Create(ctx, &meetup)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(saved, writer)
}

func (handler *MeetupHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MeetupHandler.Get")
	defer span.End()

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid meetup ID", http.StatusBadRequest)
		return
	}

	meetup, err := handler.service.Get(ctx, id)
	if err != nil || meetup == nil {
		span.SetStatus(codes.Error, "meetup not found")
		http.Error(writer, "Meetup not found", http.StatusNotFound)
		return
	}

	jsonResponse(meetup, writer)
}

func (handler *MeetupHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MeetupHandler.GetAll")
	defer span.End()

	meetups, err := handler.service.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(meetups, writer)
}

func (handler *MeetupHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "MeetupHandler.Delete")
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
		http.Error(writer, "Invalid meetup ID", http.StatusBadRequest)
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
