package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type PhotoCache struct {
	cli    *redis.Client
	logger *log.Logger
	tracer trace.Tracer
}

// Construct Redis client
func New(logger *log.Logger, tracer trace.Tracer) (*PhotoCache, error) {
	redisHost := os.Getenv("PHOTO_CACHE_HOST")
	redisPort := os.Getenv("PHOTO_CACHE_PORT")
	redisAddress := fmt.Sprintf("%s:%s", redisHost, redisPort)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &PhotoCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}, nil
}

func (pc *PhotoCache) Ping() {
	val, _ := pc.cli.Ping().Result()
	pc.logger.Println(val)
}

// Set key-value pair with default expiration
func (pc *PhotoCache) Post(ctx context.Context, catID string, photoName string, photo []byte) error {
	ctx, span := pc.tracer.Start(ctx, "PhotoCache.Post")
	defer span.End()

	err := pc.cli.Set(constructKey(catID, photoName), photo, 30*time.Minute).Err()
	if err == nil {
		pc.logger.Println("Cache hit - set photo")
	}
	return err
}

// Get value by key
func (pc *PhotoCache) Get(ctx context.Context, catID string, photoName string) ([]byte, error) {
	ctx, span := pc.tracer.Start(ctx, "PhotoCache.Get")
	defer span.End()

	value, err := pc.cli.Get(constructKey(catID, photoName)).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return nil, err
	}

	pc.logger.Println("Cache hit - get photo")
	return value, nil
}

func (pc *PhotoCache) PostNames(ctx context.Context, catID string, names []string) error {
	ctx, span := pc.tracer.Start(ctx, "PhotoCache.PostNames")
	defer span.End()

	jsonValue, err := json.Marshal(names)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return err
	}

	err = pc.cli.Set(constructNamesKey(catID), jsonValue, 30*time.Minute).Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return err
	}

	return nil
}

func (pc *PhotoCache) GetNames(ctx context.Context, catID string) ([]string, error) {
	ctx, span := pc.tracer.Start(ctx, "PhotoCache.GetNames")
	defer span.End()

	jsonValue, err := pc.cli.Get(constructNamesKey(catID)).Result()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return nil, err
	}

	var names []string
	err = json.Unmarshal([]byte(jsonValue), &names)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return nil, err
	}

	return names, nil
}

// Check if given key exists
func (pc *PhotoCache) Exists(catID string, photoName string) bool {
	cnt, err := pc.cli.Exists(constructKey(catID, photoName)).Result()
	if cnt == 1 {
		return true
	}
	if err != nil {
		return false
	}
	return false
}
