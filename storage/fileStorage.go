package storage

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"github.com/colinmarc/hdfs/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const hdfsRoot = "/catconnect/photos"

// Cat listing photos live in HDFS, one directory per cat.
type FileStorage struct {
	client *hdfs.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func New(logger *logrus.Logger, tracer trace.Tracer) (*FileStorage, error) {

	hdfsUri := os.Getenv("HDFS_URI")

	client, err := hdfs.New(hdfsUri)
	if err != nil {
		logger.Panic(err)
		return nil, err
	}

	return &FileStorage{
		client: client,
		logger: logger,
		tracer: tracer,
	}, nil
}

func (fs *FileStorage) Close() {
	fs.client.Close()
}

func (fs *FileStorage) CreateDirectoriesStart() error {

	err := fs.client.MkdirAll(hdfsRoot, 0644)
	if err != nil {
		fs.logger.Println(err)
		return err
	}

	return nil
}

func (fs *FileStorage) CreateDirectory(folderName string) error {
	folderPath := path.Join(hdfsRoot, folderName)
	err := fs.client.MkdirAll(folderPath, 0644)
	if err != nil {
		fs.logger.Printf("Error creating directory %s: %v", folderPath, err)
		return err
	}
	return nil
}

func (fs *FileStorage) SavePhoto(ctx context.Context, catID, photoName string, photoContent []byte) error {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.SavePhoto")
	defer span.End()

	folderPath := path.Join(hdfsRoot, catID)
	photoPath := path.Join(folderPath, photoName)

	if err := fs.CreateDirectory(catID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error creating directory: %v", err)
		return err
	}

	file, err := fs.client.Create(photoPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error creating file %s: %v", photoPath, err)
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			span.SetStatus(codes.Error, closeErr.Error())
			fs.logger.Printf("Error closing file: %v", closeErr)
		}
	}()

	if _, err := file.Write(photoContent); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error writing photo content: %v", err)
		return err
	}

	return nil
}

func (fs *FileStorage) GetPhotoNames(ctx context.Context, catID string) ([]string, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.GetPhotoNames")
	defer span.End()

	folderPath := path.Join(hdfsRoot, catID)
	var photoNames []string

	callbackFunc := func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			fs.logger.Println(err)
			return err
		}
		if !info.IsDir() {
			photoNames = append(photoNames, path.Base(filePath))
		}
		return nil
	}

	err := fs.client.Walk(folderPath, callbackFunc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Println(err)
		return nil, err
	}

	return photoNames, nil
}

func (fs *FileStorage) GetPhotoContent(ctx context.Context, photoPath string) ([]byte, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.GetPhotoContent")
	defer span.End()

	fullPath := path.Join(hdfsRoot, "/", photoPath)

	file, err := fs.client.Open(fullPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Println(err)
		return nil, fmt.Errorf("error opening file: %v", err)
	}
	defer file.Close()

	photoData, err := ioutil.ReadAll(file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Println(err)
		return nil, fmt.Errorf("error reading file: %v", err)
	}

	return photoData, nil
}

func (fs *FileStorage) DeletePhotos(ctx context.Context, catID string) error {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.DeletePhotos")
	defer span.End()

	folderPath := path.Join(hdfsRoot, catID)
	err := fs.client.RemoveAll(folderPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Println(err)
		return err
	}
	return nil
}
