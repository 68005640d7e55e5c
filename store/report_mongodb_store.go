package store

import (
	"context"
	"errors"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

const ReportsCollection = "reports"

type ReportMongoDBStore struct {
	reports *mongo.Collection
	tracer  trace.Tracer
}

func NewReportMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ReportStore {
	reports := client.Database(DATABASE).Collection(ReportsCollection)
	return &ReportMongoDBStore{
		reports: reports,
		tracer:  tracer,
	}
}

func (store *ReportMongoDBStore) Insert(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	ctx, span := store.tracer.Start(ctx, "ReportStore.Insert")
	defer span.End()

	report.ID = primitive.NewObjectID()
	result, err := store.reports.InsertOne(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = result.InsertedID.(primitive.ObjectID)
	return report, nil
}

func (store *ReportMongoDBStore) GetAll(ctx context.Context) ([]*domain.Report, error) {
	ctx, span := store.tracer.Start(ctx, "ReportStore.GetAll")
	defer span.End()

	cursor, err := store.reports.Find(ctx, bson.D{{}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var reports []*domain.Report
	for cursor.Next(context.TODO()) {
		var report domain.Report
		if err := cursor.Decode(&report); err != nil {
			return nil, err
		}
		reports = append(reports, &report)
	}
	return reports, cursor.Err()
}

func (store *ReportMongoDBStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ReportStatus) error {
	ctx, span := store.tracer.Start(ctx, "ReportStore.UpdateStatus")
	defer span.End()

	result, err := store.reports.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("report not found")
	}
	return nil
}
