package fileassets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/dbtest"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	pkgerrors "github.com/pyy-alt/ppg-admin-sub000/pkg/errors"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/storage/gcs"
)

type stubObjects struct {
	attrs map[string]*gcs.ObjectAttrs
	err   error
	calls int
}

func (s *stubObjects) StatObject(_ context.Context, _ string, object string) (*gcs.ObjectAttrs, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	attrs, ok := s.attrs[object]
	if !ok {
		return nil, gcs.ErrObjectNotFound
	}
	return attrs, nil
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed), "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestAttachPersistsAssets(t *testing.T) {
	conn := dbtest.Open(t)
	roID := uuid.New()
	uploader := uuid.New()
	svc, err := NewService(NewRepository(conn), nil, false)
	require.NoError(t, err)

	prefix := ObjectPrefix(roID)
	assets, err := svc.Attach(context.Background(), conn, AttachInput{
		RepairOrderID: roID,
		Kind:          enums.FileAssetKindPostRepairPhoto,
		UploadedBy:    uploader,
		Uploads: []Upload{
			{ObjectName: prefix + "front.jpg", ContentType: "image/jpeg; charset=binary", SizeBytes: 1024},
			{ObjectName: prefix + "rear.png", FileName: "Rear bumper.png", ContentType: "IMAGE/PNG", SizeBytes: 2048},
		},
	})
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "front.jpg", assets[0].FileName)
	assert.Equal(t, "image/jpeg", assets[0].ContentType)
	assert.Equal(t, "image/png", assets[1].ContentType)

	listed, err := svc.List(context.Background(), roID, enums.FileAssetKindPostRepairPhoto)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, uploader, listed[0].UploadedByPersonID)

	none, err := svc.List(context.Background(), roID, enums.FileAssetKindEstimate)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAttachRejectsInvalidUploads(t *testing.T) {
	roID := uuid.New()
	prefix := ObjectPrefix(roID)

	cases := []struct {
		name   string
		upload Upload
		kind   enums.FileAssetKind
	}{
		{name: "missing object", upload: Upload{ContentType: "image/png"}, kind: enums.FileAssetKindPostRepairPhoto},
		{name: "foreign prefix", upload: Upload{ObjectName: ObjectPrefix(uuid.New()) + "a.png", ContentType: "image/png"}, kind: enums.FileAssetKindPostRepairPhoto},
		{name: "path traversal", upload: Upload{ObjectName: prefix + "../x/a.png", ContentType: "image/png"}, kind: enums.FileAssetKindPostRepairPhoto},
		{name: "pdf as photo", upload: Upload{ObjectName: prefix + "a.pdf", ContentType: "application/pdf"}, kind: enums.FileAssetKindPostRepairPhoto},
		{name: "oversized", upload: Upload{ObjectName: prefix + "a.pdf", ContentType: "application/pdf", SizeBytes: maxUploadBytes + 1}, kind: enums.FileAssetKindEstimate},
		{name: "no content type", upload: Upload{ObjectName: prefix + "a.pdf"}, kind: enums.FileAssetKindEstimate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := dbtest.Open(t)
			svc, err := NewService(NewRepository(conn), nil, false)
			require.NoError(t, err)

			_, err = svc.Attach(context.Background(), conn, AttachInput{
				RepairOrderID: roID,
				Kind:          tc.kind,
				UploadedBy:    uuid.New(),
				Uploads:       []Upload{tc.upload},
			})
			requireCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestAttachVerifiesObjects(t *testing.T) {
	conn := dbtest.Open(t)
	roID := uuid.New()
	prefix := ObjectPrefix(roID)
	objects := &stubObjects{attrs: map[string]*gcs.ObjectAttrs{
		prefix + "estimate.pdf": {Name: prefix + "estimate.pdf", ContentType: "application/pdf", Size: 4096},
	}}
	svc, err := NewService(NewRepository(conn), objects, true)
	require.NoError(t, err)

	assets, err := svc.Attach(context.Background(), conn, AttachInput{
		RepairOrderID: roID,
		Kind:          enums.FileAssetKindEstimate,
		UploadedBy:    uuid.New(),
		Uploads:       []Upload{{ObjectName: prefix + "estimate.pdf", ContentType: "image/png", SizeBytes: 1}},
	})
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "application/pdf", assets[0].ContentType)
	assert.Equal(t, int64(4096), assets[0].SizeBytes)

	_, err = svc.Attach(context.Background(), conn, AttachInput{
		RepairOrderID: roID,
		Kind:          enums.FileAssetKindEstimate,
		UploadedBy:    uuid.New(),
		Uploads:       []Upload{{ObjectName: prefix + "missing.pdf", ContentType: "application/pdf"}},
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	objects.err = errors.New("gcs down")
	_, err = svc.Attach(context.Background(), conn, AttachInput{
		RepairOrderID: roID,
		Kind:          enums.FileAssetKindEstimate,
		UploadedBy:    uuid.New(),
		Uploads:       []Upload{{ObjectName: prefix + "estimate.pdf", ContentType: "application/pdf"}},
	})
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestAttachWithoutUploadsIsNoop(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil, false)
	require.NoError(t, err)

	assets, err := svc.Attach(context.Background(), conn, AttachInput{
		RepairOrderID: uuid.New(),
		Kind:          enums.FileAssetKindPostRepairPhoto,
		UploadedBy:    uuid.New(),
	})
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestNewServiceRequiresObjectsWhenVerifying(t *testing.T) {
	_, err := NewService(NewRepository(dbtest.Open(t)), nil, true)
	require.Error(t, err)
}
