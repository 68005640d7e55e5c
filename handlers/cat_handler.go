package handlers

import (
	"io"
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

const maxPhotoUploadBytes = 10 << 20

type CatHandler struct {
	service  *application.CatService
	verifier jwt.Verifier
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewCatHandler(service *application.CatService, verifier jwt.Verifier, tracer trace.Tracer, logger *logrus.Logger) *CatHandler {
	return &CatHandler{
		service:  service,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

func (handler *CatHandler) Init(router *mux.Router) {
	router.HandleFunc("/", handler.Create).Methods("POST")
	router.HandleFunc("/", handler.GetAllPublished).Methods("GET")
	router.HandleFunc("/seller/{sellerId}", handler.GetBySeller).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PUT")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/{id}/publish", handler.Publish).Methods("POST")
	router.HandleFunc("/{id}/unpublish", handler.Unpublish).Methods("POST")
	router.HandleFunc("/{id}/photos", handler.UploadPhoto).Methods("POST")
	router.HandleFunc("/{id}/photos", handler.GetPhotoNames).Methods("GET")
	router.HandleFunc("/{id}/photos/{name}", handler.GetPhoto).Methods("GET")
}

func (handler *CatHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.Create")
	defer span.End()

	caller, err := requesterFromRequest(req, handler.verifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var cat domain.Cat
	err = cat.FromJSON(req.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	cat.SellerID = caller.ID
	if caller.Role == domain.RoleShelter {
		cat.Shelter = true
	}

	saved, statusCode, err := handler.service.Create(ctx, &cat)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
	jsonResponse(saved, writer)
}

func (handler *CatHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.Get")
	defer span.End()

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	cat, err := handler.service.Get(ctx, id)
	if err != nil || cat == nil {
		span.SetStatus(codes.Error, "cat not found")
		http.Error(writer, "Cat not found", http.StatusNotFound)
		return
	}

	jsonResponse(cat, writer)
}

func (handler *CatHandler) GetAllPublished(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.GetAllPublished")
	defer span.End()

	cats, err := handler.service.GetAllPublished(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(cats, writer)
}

func (handler *CatHandler) GetBySeller(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.GetBySeller")
	defer span.End()

	vars := mux.Vars(req)
	sellerID, err := primitive.ObjectIDFromHex(vars["sellerId"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid seller ID", http.StatusBadRequest)
		return
	}

	cats, err := handler.service.GetBySeller(ctx, sellerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	jsonResponse(cats, writer)
}

func (handler *CatHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.Update")
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
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	var cat domain.Cat
	err = cat.FromJSON(req.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	cat.ID = id

	statusCode, err := handler.service.Update(ctx, &cat, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *CatHandler) Publish(writer http.ResponseWriter, req *http.Request) {
	handler.setStatus(writer, req, domain.CatPublished, "CatHandler.Publish")
}

func (handler *CatHandler) Unpublish(writer http.ResponseWriter, req *http.Request) {
	handler.setStatus(writer, req, domain.CatDraft, "CatHandler.Unpublish")
}

func (handler *CatHandler) setStatus(writer http.ResponseWriter, req *http.Request, status domain.CatStatus, spanName string) {
	ctx, span := handler.tracer.Start(req.Context(), spanName)
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
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.SetStatus(ctx, id, status, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *CatHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.Delete")
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
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	statusCode, err := handler.service.Delete(ctx, id, caller.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), statusCode)
		return
	}

	writer.WriteHeader(statusCode)
}

func (handler *CatHandler) UploadPhoto(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.UploadPhoto")
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
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	cat, err := handler.service.Get(ctx, id)
	if err != nil || cat == nil {
		http.Error(writer, "Cat not found", http.StatusNotFound)
		return
	}
	if cat.SellerID != caller.ID {
		http.Error(writer, "Only the seller can upload photos", http.StatusForbidden)
		return
	}

	err = req.ParseMultipartForm(maxPhotoUploadBytes)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := req.FormFile("photo")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "photo form field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	err = handler.service.SavePhoto(ctx, id, header.Filename, content)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("CatHandler.UploadPhoto : %s", err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
}

func (handler *CatHandler) GetPhotoNames(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.GetPhotoNames")
	defer span.End()

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	names, err := handler.service.GetPhotoNames(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}

	jsonResponse(names, writer)
}

func (handler *CatHandler) GetPhoto(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CatHandler.GetPhoto")
	defer span.End()

	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid cat ID", http.StatusBadRequest)
		return
	}

	content, err := handler.service.GetPhoto(ctx, id, vars["name"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}

	writer.Header().Set("Content-Type", "application/octet-stream")
	_, err = writer.Write(content)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("CatHandler.GetPhoto : %s", err)
	}
}
