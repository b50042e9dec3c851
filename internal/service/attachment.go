package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ruvim24/task-tracker-api/internal/model"
	"github.com/ruvim24/task-tracker-api/internal/repo"
)

const uploadURLExpiry = 15 * time.Minute

// Presigner выдает подписанные URL для прямой загрузки файлов
// в объектное хранилище, минуя API
type Presigner interface {
	PresignedPut(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	PublicURL(objectKey string) string
}

type AttachmentService struct {
	tasks       repo.TaskRepository
	attachments repo.AttachmentRepository
	presigner   Presigner
}

func NewAttachmentService(tasks repo.TaskRepository, attachments repo.AttachmentRepository, presigner Presigner) *AttachmentService {
	return &AttachmentService{
		tasks:       tasks,
		attachments: attachments,
		presigner:   presigner,
	}
}

// IssueUploadURL создает pending-вложение с подписанным URL загрузки.
// В uploaded его переводит webhook хранилища после фактической загрузки.
func (s *AttachmentService) IssueUploadURL(ctx context.Context, taskID int64, fileName string) (model.Attachment, error) {
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return model.Attachment{}, ErrValidation
	}

	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return model.Attachment{}, err
	}

	objectKey := fmt.Sprintf("tasks/%d/%s-%s", taskID, uuid.NewString(), fileName)

	uploadURL, err := s.presigner.PresignedPut(ctx, objectKey, uploadURLExpiry)
	if err != nil {
		return model.Attachment{}, err
	}

	return s.attachments.Create(ctx, model.Attachment{
		TaskID:    taskID,
		FileName:  fileName,
		ObjectKey: objectKey,
		UploadURL: uploadURL,
	})
}

// ConfirmUpload обрабатывает callback хранилища о завершенной загрузке
func (s *AttachmentService) ConfirmUpload(ctx context.Context, objectKey string) (model.Attachment, error) {
	if strings.TrimSpace(objectKey) == "" {
		return model.Attachment{}, ErrValidation
	}
	return s.attachments.MarkUploaded(ctx, objectKey, s.presigner.PublicURL(objectKey))
}

func (s *AttachmentService) ListByTask(ctx context.Context, taskID int64) ([]model.Attachment, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, err
	}
	return s.attachments.ListByTask(ctx, taskID)
}
