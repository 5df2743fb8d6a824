package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore MongoDB 快取；collection 以 query 建立唯一索引
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore 連線 MongoDB 並建立索引
func NewMongoStore(ctx context.Context, cfg config.MongoConfig, ttl time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	if _, err := coll.Indexes().CreateMany(ctx, indexModels(ttl)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create cache indexes: %w", err)
	}

	common.LogInfo("mongo cache initialized",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
		zap.Duration("ttl", ttl),
	)

	return newMongoStoreWithCollection(client, coll), nil
}

func newMongoStoreWithCollection(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, collection: coll}
}

// indexModels query 唯一索引；ttl > 0 時另建 createdAt 過期索引
func indexModels(ttl time.Duration) []mongo.IndexModel {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "query", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("query_unique"),
		},
	}
	if ttl > 0 {
		seconds := int32(ttl / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(seconds).SetName("createdAt_ttl"),
		})
	}
	return models
}

// Name 後端名稱
func (s *MongoStore) Name() string {
	return config.CacheBackendMongo
}

// Get 依 query 讀取
func (s *MongoStore) Get(ctx context.Context, query string) (*Entry, error) {
	var entry Entry
	err := s.collection.FindOne(ctx, bson.M{"query": Key(query)}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to find cache entry: %w", err)
	}
	return &entry, nil
}

// Set 以 upsert 寫入；同一 query 只保留一筆，後寫者覆蓋
func (s *MongoStore) Set(ctx context.Context, entry *Entry) error {
	stored := cloneEntry(entry)
	stored.ID = primitive.NilObjectID
	stored.Query = Key(entry.Query)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"query": stored.Query},
		stored,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		// 兩個並發 upsert 可能同時插入而撞到唯一索引，重試一次即成為更新
		if mongo.IsDuplicateKeyError(err) {
			_, err = s.collection.ReplaceOne(ctx, bson.M{"query": stored.Query}, stored)
		}
		if err != nil {
			return fmt.Errorf("failed to upsert cache entry: %w", err)
		}
	}
	return nil
}

// Close 中斷連線
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
