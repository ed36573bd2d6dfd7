package application

import (
	"context"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
)

// MaxUploadBatch bounds the number of files accepted in one ingestion call.
const MaxUploadBatch = 20

// UploadItem is one transport-decoded file blob with its metadata.
type UploadItem struct {
	OriginalName string
	StoredName   string
	ContentType  string
	Destination  string
	Size         int64
	Body         io.Reader
}

// UploadResult reports the outcome for a single item. Items are isolated:
// one failure never aborts the rest of the batch.
type UploadResult struct {
	OriginalName string           `json:"originalname"`
	Document     *entity.Document `json:"document,omitempty"`
	Err          error            `json:"-"`
}

// UploadService ingests file batches: each blob is stored to the bucket and
// recorded as a new File document through the reconciler's create path. File
// records are never merge-updated.
type UploadService struct {
	Reconciler *Reconciler
	GCS        *storage.Client
	Bucket     string
	Logger     *logrus.Logger
}

func NewUploadService(rec *Reconciler, gcs *storage.Client, bucket string, logger *logrus.Logger) *UploadService {
	return &UploadService{Reconciler: rec, GCS: gcs, Bucket: bucket, Logger: logger}
}

// Ingest processes up to MaxUploadBatch items concurrently. Every item
// targets a distinct new record, so there is no shared state between them.
func (s *UploadService) Ingest(ctx context.Context, items []UploadItem) ([]UploadResult, error) {
	if len(items) > MaxUploadBatch {
		return nil, ErrBatchTooLarge
	}

	results := make([]UploadResult, len(items))
	g := &errgroup.Group{}
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i] = s.ingestOne(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (s *UploadService) ingestOne(ctx context.Context, item UploadItem) UploadResult {
	res := UploadResult{OriginalName: item.OriginalName}

	if s.GCS != nil && s.Bucket != "" && item.Body != nil {
		objectPath := path.Join(item.Destination, item.StoredName)
		if _, err := helpers.UploadObject(ctx, s.GCS, s.Bucket, objectPath, item.ContentType, item.Body); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("file", item.OriginalName).Error("blob upload failed")
			}
			res.Err = &PersistenceError{Err: err}
			return res
		}
	}

	doc, _, err := s.Reconciler.Reconcile(ctx, entity.KindFile, "", map[string]any{
		"originalname": item.OriginalName,
		"filename":     item.StoredName,
		"mimetype":     item.ContentType,
		"destination":  item.Destination,
		"size":         item.Size,
	}, "")
	if err != nil {
		res.Err = err
		return res
	}
	res.Document = doc
	return res
}
