package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/MaleyDenis/infoBro/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const itemsCollection = "news_items"

// Mongo is the MongoDB-backed ItemStore. The natural key is enforced by
// a unique compound index, which makes concurrent upserts of the same
// item serialize at the document level.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	m := &Mongo{
		client: client,
		db:     client.Database(database),
	}
	m.ensureIndexes()
	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := m.db.Collection(itemsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "source_type", Value: 1},
				{Key: "source_id", Value: 1},
				{Key: "url", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "source_type", Value: 1},
				{Key: "published_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "published_at", Value: -1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("Warning: failed to create indexes: %v", err)
	} else {
		log.Println("Database indexes ensured")
	}
}

func (m *Mongo) Upsert(ctx context.Context, item model.NewsItem) (bool, error) {
	collection := m.db.Collection(itemsCollection)

	filter := bson.M{
		"source_type": item.SourceType,
		"source_id":   item.SourceID,
		"url":         item.URL,
	}
	update := bson.M{
		"$set": bson.M{
			"title":           item.Title,
			"content":         item.Content,
			"content_preview": item.ContentPreview,
			"source_name":     item.SourceName,
			"source_url":      item.SourceURL,
			"processed_at":    time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":          item.ID,
			"source_type":  item.SourceType,
			"source_id":    item.SourceID,
			"url":          item.URL,
			"published_at": item.PublishedAt,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert item %s: %w", item.ID, err)
	}

	return result.UpsertedCount > 0, nil
}

func (m *Mongo) Query(ctx context.Context, q model.Query) (*model.Page, error) {
	collection := m.db.Collection(itemsCollection)

	filter := bson.M{}
	if q.SourceType != "" {
		filter["source_type"] = q.SourceType
	}
	if q.SourceID != "" {
		filter["source_id"] = q.SourceID
	}
	if q.Text != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
			bson.M{"content_preview": pattern},
		}
	}
	if q.From != nil || q.To != nil {
		dateFilter := bson.M{}
		if q.From != nil {
			dateFilter["$gte"] = *q.From
		}
		if q.To != nil {
			dateFilter["$lte"] = *q.To
		}
		filter["published_at"] = dateFilter
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []model.NewsItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	return &model.Page{
		Items: items,
		Pagination: model.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: model.TotalPages(int(total), pageSize),
			TotalItems: int(total),
		},
	}, nil
}

func (m *Mongo) GetByID(ctx context.Context, id string) (*model.NewsItem, error) {
	collection := m.db.Collection(itemsCollection)

	var item model.NewsItem
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}

	return &item, nil
}
