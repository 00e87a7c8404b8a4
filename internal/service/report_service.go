package service

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eposupdate/internal/config"
	"eposupdate/internal/domain"
	"eposupdate/internal/logging"
	"eposupdate/internal/port"
	"eposupdate/internal/xlsxreport"
)

// ReportService renders the invalid id report and makes it downloadable.
type ReportService interface {
	Publish(ctx context.Context, runID uuid.UUID, ids []string) (*domain.ReportArtifact, error)
}

// ReportStorage places rendered reports in object storage. A nil
// *ReportStorage keeps reports inline.
type ReportStorage struct {
	Storage   port.ObjectStorage
	S3        *config.S3Config
	KeyPrefix string
}

type reportService struct {
	writer  *xlsxreport.Writer
	storage *ReportStorage
	logger  *zap.Logger
}

// NewReportService creates a new ReportService implementation.
func NewReportService(writer *xlsxreport.Writer, storage *ReportStorage, logger *zap.Logger) ReportService {
	if writer == nil {
		writer = xlsxreport.NewWriter("", "")
	}
	return &reportService{
		writer:  writer,
		storage: storage,
		logger:  logging.OrNop(logger),
	}
}

func (s *reportService) Publish(ctx context.Context, runID uuid.UUID, ids []string) (*domain.ReportArtifact, error) {
	artifact, err := s.writer.Render(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrReportRenderFailed, err)
	}

	if s.storage == nil || s.storage.Storage == nil {
		return artifact, nil
	}

	key := ReportKey(s.storage.KeyPrefix, runID, artifact.FileName)
	_, err = s.storage.Storage.Upload(ctx, port.UploadInput{
		Bucket:       s.storage.S3.Bucket,
		Key:          key,
		Body:         bytes.NewReader(artifact.Data),
		ContentType:  artifact.ContentType,
		Size:         int64(len(artifact.Data)),
		DownloadName: artifact.FileName,
	})
	if err != nil {
		s.logger.Error("report upload failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: uploading report: %w", domain.ErrReportRenderFailed, err)
	}

	url, err := s.storage.Storage.GetPresignedURL(ctx, s.storage.S3.Bucket, key, s.storage.S3.PresignExpiry)
	if err != nil {
		s.logger.Error("report presign failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: presigning report: %w", domain.ErrReportRenderFailed, err)
	}

	s.logger.Info("report uploaded", zap.String("key", key), zap.Int("rows", artifact.Rows))
	artifact.Data = nil
	artifact.DownloadURL = url
	return artifact, nil
}

// ReportKey returns the object key of a run's report: <prefix>/<runID>/<file>.
func ReportKey(prefix string, runID uuid.UUID, fileName string) string {
	return path.Join(prefix, runID.String(), fileName)
}
