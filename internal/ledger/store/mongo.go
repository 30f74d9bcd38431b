package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/logger"
)

// MongoConfig MongoDB 连接配置
type MongoConfig struct {
	URI        string        // 连接 URI，例如 "mongodb://localhost:27017"
	Database   string        // 数据库名称
	Collection string        // 记录集合名称
	Timeout    time.Duration // 连接超时时间
}

// MongoStore 基于 MongoDB 的记录存储（自托管替代后端）。
// change stream 只用作变更信号：每次事件后整表重查，
// 向订阅方交付与 Firestore 相同的全量快照语义。
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore 建立 MongoDB 连接并验证可达
func NewMongoStore(cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("MongoDB URI cannot be empty")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database name cannot be empty")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Subscribe delivers the current collection immediately, then redelivers the
// full collection after every change-stream event until ctx is cancelled.
func (s *MongoStore) Subscribe(ctx context.Context, onSnapshot func([]models.Record)) error {
	stream, err := s.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return fmt.Errorf("failed to open change stream: %w", err)
	}

	go func() {
		defer stream.Close(context.Background())

		s.deliverSnapshot(ctx, onSnapshot)
		for stream.Next(ctx) {
			s.deliverSnapshot(ctx, onSnapshot)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.L().Errorf("MongoDB change stream failed: %v", err)
		}
	}()

	return nil
}

func (s *MongoStore) deliverSnapshot(ctx context.Context, onSnapshot func([]models.Record)) {
	records, err := s.loadSnapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.L().Errorf("Failed to load snapshot: %v", err)
		}
		return
	}
	onSnapshot(records)
}

func (s *MongoStore) loadSnapshot(ctx context.Context) ([]models.Record, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// Create 新建文档；ID 取 ObjectID 的十六进制形式，保持对外 ID 为不透明字符串
func (s *MongoStore) Create(ctx context.Context, fields map[string]any) error {
	doc := bson.M{"_id": primitive.NewObjectID().Hex()}
	for k, v := range fields {
		doc[k] = v
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// Update 局部更新字段
func (s *MongoStore) Update(ctx context.Context, id string, fields map[string]any) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// Delete 删除文档
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// Close 断开 MongoDB 连接
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
