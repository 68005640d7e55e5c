package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cat_connect/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ForumService struct {
	store  domain.ForumStore
	users  domain.UserStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewForumService(store domain.ForumStore, users domain.UserStore, tracer trace.Tracer, logger *logrus.Logger) *ForumService {
	return &ForumService{
		store:  store,
		users:  users,
		tracer: tracer,
		logger: logger,
	}
}

func (service *ForumService) Create(ctx context.Context, post *domain.ForumPost) (*domain.ForumPost, int, error) {
	ctx, span := service.tracer.Start(ctx, "ForumService.Create")
	defer span.End()

	service.logger.Infoln("ForumService.Create : Create service reached")

	if post.Title == "" || post.Body == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("title and body are required")
	}

	author, err := service.users.Get(ctx, post.AuthorID)
	if err != nil || author == nil {
		return nil, http.StatusNotFound, fmt.Errorf("author not found")
	}
	post.CreatedAt = time.Now()
	post.Comments = []domain.Comment{}

	saved, err := service.store.Insert(ctx, post)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return saved, http.StatusCreated, nil
}

func (service *ForumService) Get(ctx context.Context, id primitive.ObjectID) (*domain.ForumPost, error) {
	ctx, span := service.tracer.Start(ctx, "ForumService.Get")
	defer span.End()

	return service.store.Get(ctx, id)
}

func (service *ForumService) GetAll(ctx context.Context) ([]*domain.ForumPost, error) {
	ctx, span := service.tracer.Start(ctx, "ForumService.GetAll")
	defer span.End()

	return service.store.GetAll(ctx)
}

func (service *ForumService) AddComment(ctx context.Context, postID primitive.ObjectID, authorID primitive.ObjectID, text string) (int, error) {
	ctx, span := service.tracer.Start(ctx, "ForumService.AddComment")
	defer span.End()

	service.logger.Infoln("ForumService.AddComment : AddComment service reached")

	if text == "" {
		return http.StatusBadRequest, fmt.Errorf("comment text is required")
	}

	post, err := service.store.Get(ctx, postID)
	if err != nil || post == nil {
		return http.StatusNotFound, fmt.Errorf("post not found")
	}

	comment := domain.Comment{
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	err = service.store.AppendComment(ctx, postID, &comment)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

// Delete removes a post. Authors delete their own posts, admins delete any.
func (service *ForumService) Delete(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID, requesterRole string) (int, error) {
	ctx, span := service.tracer.Start(ctx, "ForumService.Delete")
	defer span.End()

	post, err := service.store.Get(ctx, id)
	if err != nil || post == nil {
		return http.StatusNotFound, fmt.Errorf("post not found")
	}
	if post.AuthorID != requesterID && requesterRole != domain.RoleAdmin {
		return http.StatusForbidden, fmt.Errorf("only the author or an admin can delete a post")
	}

	err = service.store.Delete(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}
