package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/logger"
)

// FirestoreConfig Firestore 连接配置
type FirestoreConfig struct {
	ProjectID       string
	Collection      string
	CredentialsFile string
}

// FirestoreStore 基于 Firestore 的记录存储（原始账本托管的后端）
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore 建立 Firestore 连接
func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id cannot be empty")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Firestore: %w", err)
	}

	return &FirestoreStore{client: client, collection: cfg.Collection}, nil
}

// Subscribe streams the full collection to onSnapshot on every change until
// ctx is cancelled. Documents that fail to decode are skipped, not fatal.
func (s *FirestoreStore) Subscribe(ctx context.Context, onSnapshot func([]models.Record)) error {
	it := s.client.Collection(s.collection).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				logger.L().Errorf("Firestore snapshot stream failed: %v", err)
				return
			}

			docs, err := qs.Documents.GetAll()
			if err != nil {
				logger.L().Errorf("Failed to read Firestore snapshot documents: %v", err)
				continue
			}

			records := make([]models.Record, 0, len(docs))
			for _, doc := range docs {
				var rec models.Record
				if err := doc.DataTo(&rec); err != nil {
					logger.L().Warnf("Skipping undecodable document %s: %v", doc.Ref.ID, err)
					continue
				}
				rec.ID = doc.Ref.ID
				records = append(records, rec)
			}
			onSnapshot(records)
		}
	}()

	return nil
}

// Create 新建文档，ID 由 Firestore 生成
func (s *FirestoreStore) Create(ctx context.Context, fields map[string]any) error {
	if _, _, err := s.client.Collection(s.collection).Add(ctx, fields); err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// Update 合并写入局部字段
func (s *FirestoreStore) Update(ctx context.Context, id string, fields map[string]any) error {
	doc := s.client.Collection(s.collection).Doc(id)
	if _, err := doc.Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update record %s: %w", id, err)
	}
	return nil
}

// Delete 删除文档
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Collection(s.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return nil
}

// Close 关闭客户端连接
func (s *FirestoreStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
