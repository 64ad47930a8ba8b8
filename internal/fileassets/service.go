package fileassets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/storage/gcs"
)

const (
	maxUploadBytes   = 25 * 1024 * 1024
	maxFilesPerBatch = 20
)

type objectStatter interface {
	StatObject(ctx context.Context, bucket, object string) (*gcs.ObjectAttrs, error)
}

// Upload describes an object the client already uploaded to the bucket.
type Upload struct {
	ObjectName  string
	FileName    string
	ContentType string
	SizeBytes   int64
}

// AttachInput links uploaded objects to a repair order, and optionally one parts order.
type AttachInput struct {
	RepairOrderID uuid.UUID
	PartsOrderID  *uuid.UUID
	Kind          enums.FileAssetKind
	Uploads       []Upload
	UploadedBy    uuid.UUID
}

// Service records file asset references for repair orders.
type Service interface {
	Attach(ctx context.Context, tx *gorm.DB, input AttachInput) ([]models.FileAsset, error)
	List(ctx context.Context, repairOrderID uuid.UUID, kinds ...enums.FileAssetKind) ([]models.FileAsset, error)
}

type service struct {
	repo    Repository
	objects objectStatter
	verify  bool
}

// NewService builds the file asset service. When verify is set every upload
// is checked against the bucket before it is recorded.
func NewService(repo Repository, objects objectStatter, verify bool) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("file asset repository required")
	}
	if verify && objects == nil {
		return nil, fmt.Errorf("object store required when verification is enabled")
	}
	return &service{repo: repo, objects: objects, verify: verify}, nil
}

// ObjectPrefix is the bucket prefix every asset of a repair order must live under.
func ObjectPrefix(repairOrderID uuid.UUID) string {
	return fmt.Sprintf("repair-orders/%s/", repairOrderID)
}

func (s *service) Attach(ctx context.Context, tx *gorm.DB, input AttachInput) ([]models.FileAsset, error) {
	if input.RepairOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair order id required")
	}
	if input.UploadedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "person identity missing")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid file asset kind")
	}
	if len(input.Uploads) == 0 {
		return nil, nil
	}
	if len(input.Uploads) > maxFilesPerBatch {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d files can be attached at once", maxFilesPerBatch))
	}

	prefix := ObjectPrefix(input.RepairOrderID)
	assets := make([]models.FileAsset, 0, len(input.Uploads))
	for i, upload := range input.Uploads {
		asset, err := s.buildAsset(ctx, input, prefix, upload)
		if err != nil {
			var typed *pkgerrors.Error
			if errors.As(err, &typed) && typed.Code() == pkgerrors.CodeValidation {
				return nil, typed.WithDetails(map[string]any{"index": i, "object_name": upload.ObjectName})
			}
			return nil, err
		}
		assets = append(assets, asset)
	}

	if err := s.repo.WithTx(tx).CreateMany(ctx, assets); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist file assets")
	}
	return assets, nil
}

func (s *service) List(ctx context.Context, repairOrderID uuid.UUID, kinds ...enums.FileAssetKind) ([]models.FileAsset, error) {
	assets, err := s.repo.ListByRepairOrder(ctx, repairOrderID, kinds...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list file assets")
	}
	return assets, nil
}

func (s *service) buildAsset(ctx context.Context, input AttachInput, prefix string, upload Upload) (models.FileAsset, error) {
	objectName := strings.TrimSpace(upload.ObjectName)
	if objectName == "" {
		return models.FileAsset{}, pkgerrors.New(pkgerrors.CodeValidation, "object_name is required")
	}
	if !strings.HasPrefix(objectName, prefix) || path.Clean(objectName) != objectName {
		return models.FileAsset{}, pkgerrors.New(pkgerrors.CodeValidation, "object_name must be under "+prefix)
	}

	fileName := strings.TrimSpace(upload.FileName)
	if fileName == "" {
		fileName = path.Base(objectName)
	}

	contentType, size := upload.ContentType, upload.SizeBytes
	if s.verify {
		attrs, err := s.objects.StatObject(ctx, "", objectName)
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return models.FileAsset{}, pkgerrors.New(pkgerrors.CodeValidation, "file was not uploaded")
		}
		if err != nil {
			return models.FileAsset{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify uploaded file")
		}
		if attrs.ContentType != "" {
			contentType = attrs.ContentType
		}
		size = attrs.Size
	}

	mimeType, err := normalizeMimeType(contentType)
	if err != nil {
		return models.FileAsset{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if !isAllowedMime(input.Kind, mimeType) {
		return models.FileAsset{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be %s", input.Kind, allowedMimeDescription(input.Kind)))
	}
	if size < 0 || size > maxUploadBytes {
		return models.FileAsset{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file size must be at most %d bytes", maxUploadBytes))
	}

	asset := models.FileAsset{
		ID:                 uuid.New(),
		RepairOrderID:      input.RepairOrderID,
		Kind:               input.Kind,
		ObjectName:         objectName,
		FileName:           fileName,
		ContentType:        mimeType,
		SizeBytes:          size,
		UploadedByPersonID: input.UploadedBy,
	}
	if input.PartsOrderID != nil {
		id := *input.PartsOrderID
		asset.PartsOrderID = &id
	}
	return asset, nil
}
