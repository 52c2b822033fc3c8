package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/techagentng/mopcdash/db"
	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxImageSize is the largest photo accepted for a report.
	MaxImageSize  = 10 << 20
	thumbnailSize = 161
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type MediaService interface {
	// UploadReportImages stores the photos and their thumbnails and attaches
	// the photo URLs to the report.
	UploadReportImages(ctx context.Context, user *models.User, reportID string, files []*multipart.FileHeader) (*models.Report, error)
}

type mediaService struct {
	mediaRepo db.MediaRepository
	reports   ReportService
	log       *zap.Logger
}

func NewMediaService(mediaRepo db.MediaRepository, reports ReportService, log *zap.Logger) MediaService {
	return &mediaService{mediaRepo: mediaRepo, reports: reports, log: log}
}

func (m *mediaService) UploadReportImages(ctx context.Context, user *models.User, reportID string, files []*multipart.FileHeader) (*models.Report, error) {
	if len(files) == 0 {
		return nil, errs.New("no images provided", http.StatusBadRequest)
	}
	// checks ownership before anything is uploaded
	if _, err := m.reports.GetReportByID(ctx, user, reportID); err != nil {
		return nil, err
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			url, err := m.uploadImage(gctx, reportID, f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return m.reports.AddImages(ctx, user, reportID, urls...)
}

func (m *mediaService) uploadImage(ctx context.Context, reportID string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return "", errs.New(fmt.Sprintf("unsupported file type: %s", fh.Filename), http.StatusBadRequest)
	}
	if fh.Size > MaxImageSize {
		return "", errs.New(fmt.Sprintf("%s is larger than %d MB", fh.Filename, MaxImageSize>>20), http.StatusRequestEntityTooLarge)
	}

	file, err := fh.Open()
	if err != nil {
		return "", errs.New(err.Error(), http.StatusBadRequest)
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return "", errs.New(err.Error(), http.StatusBadRequest)
	}

	thumbnail, err := Thumbnail(content)
	if err != nil {
		return "", errs.New(fmt.Sprintf("%s is not a valid image", fh.Filename), http.StatusBadRequest)
	}

	name := uuid.New().String() + ext
	folder := fmt.Sprintf("reports/%s", reportID)

	var url string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		url, err = m.mediaRepo.UploadMediaToS3(gctx, content, folder, name, contentType)
		return err
	})
	g.Go(func() error {
		_, err := m.mediaRepo.UploadMediaToS3(gctx, thumbnail, folder+"/thumbnail", strings.TrimSuffix(name, ext)+".jpg", "image/jpeg")
		return err
	})
	if err := g.Wait(); err != nil {
		m.log.Error("image upload failed", zap.String("report", reportID), zap.Error(err))
		return "", errs.ErrInternalServerError
	}
	return url, nil
}

// Thumbnail decodes an image and returns a 161x161 JPEG of it.
func Thumbnail(content []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(content), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	thumb := imaging.Fill(img, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %v", err)
	}
	return buf.Bytes(), nil
}
