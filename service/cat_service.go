package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cat_connect/cache"
	"cat_connect/domain"
	"cat_connect/errors"
	"cat_connect/storage"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type CatService struct {
	store      domain.CatStore
	photos     *storage.FileStorage
	photoCache *cache.PhotoCache
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewCatService(store domain.CatStore, photos *storage.FileStorage, photoCache *cache.PhotoCache, tracer trace.Tracer, logger *logrus.Logger) *CatService {
	return &CatService{
		store:      store,
		photos:     photos,
		photoCache: photoCache,
		tracer:     tracer,
		logger:     logger,
	}
}

// New listings start as drafts and only become visible once published.
func (service *CatService) Create(ctx context.Context, cat *domain.Cat) (*domain.Cat, int, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.Create")
	defer span.End()

	service.logger.Infoln("CatService.Create : Create service reached")

	if err := cat.ValidateCat(); err != nil {
		return nil, http.StatusBadRequest, err
	}

	cat.Status = domain.CatDraft
	cat.CreatedAt = time.Now()

	saved, err := service.store.Insert(ctx, cat)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return saved, http.StatusOK, nil
}

func (service *CatService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Cat, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.Get")
	defer span.End()

	return service.store.Get(ctx, id)
}

func (service *CatService) GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*domain.Cat, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.GetBySeller")
	defer span.End()

	return service.store.GetBySeller(ctx, sellerID)
}

func (service *CatService) GetAllPublished(ctx context.Context) ([]*domain.Cat, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.GetAllPublished")
	defer span.End()

	return service.store.GetAllPublished(ctx)
}

func (service *CatService) Update(ctx context.Context, cat *domain.Cat, requesterID primitive.ObjectID) (int, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.Update")
	defer span.End()

	existing, err := service.store.Get(ctx, cat.ID)
	if err != nil || existing == nil {
		return http.StatusNotFound, fmt.Errorf("cat not found")
	}
	if existing.SellerID != requesterID {
		span.SetStatus(codes.Error, errors.NotCatOwner)
		return http.StatusForbidden, fmt.Errorf(errors.NotCatOwner)
	}

	cat.SellerID = existing.SellerID
	cat.CreatedAt = existing.CreatedAt

	err = service.store.Update(ctx, cat)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

func (service *CatService) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.CatStatus, requesterID primitive.ObjectID) (int, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.SetStatus")
	defer span.End()

	existing, err := service.store.Get(ctx, id)
	if err != nil || existing == nil {
		return http.StatusNotFound, fmt.Errorf("cat not found")
	}
	if existing.SellerID != requesterID {
		span.SetStatus(codes.Error, errors.NotCatOwner)
		return http.StatusForbidden, fmt.Errorf(errors.NotCatOwner)
	}

	err = service.store.UpdateStatus(ctx, id, status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

func (service *CatService) Delete(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID) (int, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.Delete")
	defer span.End()

	existing, err := service.store.Get(ctx, id)
	if err != nil || existing == nil {
		return http.StatusNotFound, fmt.Errorf("cat not found")
	}
	if existing.SellerID != requesterID {
		span.SetStatus(codes.Error, errors.NotCatOwner)
		return http.StatusForbidden, fmt.Errorf(errors.NotCatOwner)
	}

	err = service.store.Delete(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	if service.photos != nil {
		_ = service.photos.DeletePhotos(ctx, id.Hex())
	}

	return http.StatusOK, nil
}

func (service *CatService) SavePhoto(ctx context.Context, catID primitive.ObjectID, photoName string, content []byte) error {
	ctx, span := service.tracer.Start(ctx, "CatService.SavePhoto")
	defer span.End()

	err := service.photos.SavePhoto(ctx, catID.Hex(), photoName, content)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = service.photoCache.Post(ctx, catID.Hex(), photoName, content)
	if err != nil {
		service.logger.Errorf("CatService.SavePhoto : cache write failed: %s", err)
	}

	return nil
}

// cache first, HDFS on a miss
func (service *CatService) GetPhoto(ctx context.Context, catID primitive.ObjectID, photoName string) ([]byte, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.GetPhoto")
	defer span.End()

	if service.photoCache.Exists(catID.Hex(), photoName) {
		content, err := service.photoCache.Get(ctx, catID.Hex(), photoName)
		if err == nil {
			return content, nil
		}
	}

	content, err := service.photos.GetPhotoContent(ctx, fmt.Sprintf("%s/%s", catID.Hex(), photoName))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_ = service.photoCache.Post(ctx, catID.Hex(), photoName, content)
	return content, nil
}

func (service *CatService) GetPhotoNames(ctx context.Context, catID primitive.ObjectID) ([]string, error) {
	ctx, span := service.tracer.Start(ctx, "CatService.GetPhotoNames")
	defer span.End()

	names, err := service.photoCache.GetNames(ctx, catID.Hex())
	if err == nil {
		return names, nil
	}

	names, err = service.photos.GetPhotoNames(ctx, catID.Hex())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_ = service.photoCache.PostNames(ctx, catID.Hex(), names)
	return names, nil
}
