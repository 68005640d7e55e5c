package application

import (
	"context"
	"net/http"
	"time"

	"cat_connect/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ReportService struct {
	store  domain.ReportStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewReportService(store domain.ReportStore, tracer trace.Tracer, logger *logrus.Logger) *ReportService {
	return &ReportService{
		store:  store,
		tracer: tracer,
		logger: logger,
	}
}

func (service *ReportService) Create(ctx context.Context, report *domain.Report) (*domain.Report, int, error) {
	ctx, span := service.tracer.Start(ctx, "ReportService.Create")
	defer span.End()

	service.logger.Infoln("ReportService.Create : Create service reached")

	if err := report.ValidateReport(); err != nil {
		return nil, http.StatusBadRequest, err
	}

	report.Status = domain.ReportOpen
	report.CreatedAt = time.Now()

	saved, err := service.store.Insert(ctx, report)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return saved, http.StatusCreated, nil
}

// admin only, enforced by the access policy
func (service *ReportService) GetAll(ctx context.Context) ([]*domain.Report, error) {
	ctx, span := service.tracer.Start(ctx, "ReportService.GetAll")
	defer span.End()

	return service.store.GetAll(ctx)
}

func (service *ReportService) Resolve(ctx context.Context, id primitive.ObjectID) (int, error) {
	ctx, span := service.tracer.Start(ctx, "ReportService.Resolve")
	defer span.End()

	service.logger.Infoln("ReportService.Resolve : Resolve service reached")

	err := service.store.UpdateStatus(ctx, id, domain.ReportResolved)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}
