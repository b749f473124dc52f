package mg

import (
	"context"
	"fmt"
	"time"

	"snoreguard/guard/defs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	EventsCollection = "events"
	AHICollection    = "ahi"
	AlertsCollection = "alerts"
)

type DocumentStore interface {
	DocByID(ctx context.Context, collection string, id *primitive.ObjectID, doc interface{}) error
	DeleteByID(ctx context.Context, collection string, id *primitive.ObjectID) error
	InsertIfNew(ctx context.Context, collection string, filter bson.M, doc interface{}) (*mongo.UpdateResult, error)
	Upsert(ctx context.Context, collection string, filter bson.M, doc interface{}) (*mongo.UpdateResult, error)
}

type EventStore interface {
	WriteEvent(ctx context.Context, ev *defs.SnoreEvent) (*mongo.UpdateResult, error)
	ReadEvents(ctx context.Context, start, end time.Time) ([]defs.SnoreEvent, error)
}

type AHIStore interface {
	WriteAHI(ctx context.Context, r *defs.AHIReading) (*mongo.UpdateResult, error)
	ReadAHI(ctx context.Context, date string) (*defs.AHIReading, error)
}

type AlertStore interface {
	WriteAlert(ctx context.Context, al *defs.Alert) (*mongo.UpdateResult, error)
	ReadAlerts(ctx context.Context, start, end time.Time) ([]defs.Alert, error)
}

type MongoStore struct {
	Client *mongo.Client
	Logger *zap.Logger

	DBName string
}

func New(ctx context.Context, cfg defs.MongoConfig, dbName string, logger *zap.Logger) (*MongoStore, error) {
	mongoClient, err := mongo.Connect(
		ctx,
		options.Client().ApplyURI(cfg.URI),
		options.Client().SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	return &MongoStore{
		Client: mongoClient,
		Logger: logger,
		DBName: dbName,
	}, nil
}

func (ms *MongoStore) DocByID(ctx context.Context, collection string, id *primitive.ObjectID, doc interface{}) error {
	sr := ms.Client.Database(ms.DBName).Collection(collection).FindOne(ctx, bson.M{"_id": id})
	return sr.Decode(doc)
}

func (ms *MongoStore) InsertIfNew(ctx context.Context, collection string, filter bson.M, doc interface{}) (*mongo.UpdateResult, error) {
	ms.Logger.Debug(
		"inserting document",
		zap.String("collection", collection),
		zap.Any("filter", filter),
	)

	res, err := ms.Client.
		Database(ms.DBName).
		Collection(collection).
		UpdateOne(ctx, filter,
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true),
		)
	if err != nil {
		return nil, fmt.Errorf("unable to insert if new: %w", err)
	}

	return res, err
}

func (ms *MongoStore) Upsert(ctx context.Context, collection string, filter bson.M, doc interface{}) (*mongo.UpdateResult, error) {
	ms.Logger.Debug(
		"upserting document",
		zap.String("collection", collection),
		zap.Any("document", doc),
	)

	res, err := ms.Client.
		Database(ms.DBName).
		Collection(collection).
		UpdateOne(ctx, filter,
			bson.M{"$set": doc},
			options.Update().SetUpsert(true),
		)
	if err != nil {
		ms.Logger.Debug(
			"unable to upsert document",
			zap.String("collection", collection),
			zap.Error(err),
		)
		return nil, fmt.Errorf("unable to upsert document: %w", err)
	}

	return res, err
}

func (ms *MongoStore) DeleteByID(ctx context.Context, collection string, id *primitive.ObjectID) error {
	ms.Logger.Debug(
		"deleting document by id",
		zap.String("collection", collection),
		zap.String("id", id.Hex()),
	)
	_, err := ms.Client.Database(ms.DBName).Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (ms *MongoStore) getEventsBetween(ctx context.Context, collection string, start, end time.Time, slicePtr interface{}) error {
	ms.Logger.Debug(
		"reading events",
		zap.String("collection", collection),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	findOptions := options.Find()
	findOptions.SetSort(bson.D{primitive.E{Key: "time", Value: 1}})

	cur, err := ms.Client.
		Database(ms.DBName).
		Collection(collection).
		Find(ctx, bson.M{
			"time": bson.M{
				"$gte": primitive.NewDateTimeFromTime(start),
				"$lte": primitive.NewDateTimeFromTime(end),
			},
		}, findOptions)
	if err != nil {
		ms.Logger.Debug(
			"unable to read events",
			zap.String("collection", collection),
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err),
		)
		return fmt.Errorf("unable to read events: %w", err)
	}

	return cur.All(ctx, slicePtr)
}

func (ms *MongoStore) WriteEvent(ctx context.Context, ev *defs.SnoreEvent) (*mongo.UpdateResult, error) {
	filter := bson.M{"id": ev.ID}
	return ms.InsertIfNew(ctx, EventsCollection, filter, ev)
}

func (ms *MongoStore) ReadEvents(ctx context.Context, start, end time.Time) ([]defs.SnoreEvent, error) {
	var evs []defs.SnoreEvent
	if err := ms.getEventsBetween(ctx, EventsCollection, start, end, &evs); err != nil {
		return nil, fmt.Errorf("unable to read snore events: %w", err)
	}
	return evs, nil
}

func (ms *MongoStore) WriteAHI(ctx context.Context, r *defs.AHIReading) (*mongo.UpdateResult, error) {
	filter := bson.M{"date": r.Date}
	return ms.Upsert(ctx, AHICollection, filter, r)
}

func (ms *MongoStore) ReadAHI(ctx context.Context, date string) (*defs.AHIReading, error) {
	var r defs.AHIReading
	sr := ms.Client.Database(ms.DBName).Collection(AHICollection).FindOne(ctx, bson.M{"date": date})
	if err := sr.Decode(&r); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read ahi: %w", err)
	}
	return &r, nil
}

func (ms *MongoStore) WriteAlert(ctx context.Context, al *defs.Alert) (*mongo.UpdateResult, error) {
	filter := bson.M{}
	if al.ID != nil {
		filter["_id"] = al.ID
	} else {
		filter["time"] = al.Time
	}
	return ms.Upsert(ctx, AlertsCollection, filter, al)
}

func (ms *MongoStore) ReadAlerts(ctx context.Context, start, end time.Time) ([]defs.Alert, error) {
	var alerts []defs.Alert
	if err := ms.getEventsBetween(ctx, AlertsCollection, start, end, &alerts); err != nil {
		return nil, fmt.Errorf("unable to read alerts: %w", err)
	}
	return alerts, nil
}
