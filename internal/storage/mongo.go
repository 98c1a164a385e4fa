package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	settingsID       = "settings"
	userIndexName    = "user_id_unique"
	countryIndexName = "country_unique"
)

// Mongo keeps reservations in the "reservations" collection ({user_id, country})
// and the display config in a single "config" document with _id "settings".
//
// Ids written by older deployments may be stored as 64-bit integers; reads
// accept both forms and writes always use strings.
type Mongo struct {
	client       *mongo.Client
	reservations *mongo.Collection
	config       *mongo.Collection
}

// OpenMongo connects, pings and makes sure the unique indexes exist. A store
// that cannot be reached within timeout is an error.
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration) (*Mongo, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	m := &Mongo{
		client:       client,
		reservations: db.Collection("reservations"),
		config:       db.Collection("config"),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.reservations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(userIndexName),
		},
		{
			Keys:    bson.D{{Key: "country", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(countryIndexName),
		},
	})
	if err != nil {
		return fmt.Errorf("create reservation indexes: %w", err)
	}
	return nil
}

type reservationDoc struct {
	UserID  any    `bson:"user_id"`
	Country string `bson:"country"`
}

func (d reservationDoc) reservation() Reservation {
	return Reservation{UserID: idString(d.UserID), Slot: d.Country}
}

func (m *Mongo) List(ctx context.Context) ([]Reservation, error) {
	cur, err := m.reservations.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reservationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}
	out := make([]Reservation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.reservation())
	}
	return out, nil
}

func (m *Mongo) ByUser(ctx context.Context, userID string) (Reservation, error) {
	return m.one(ctx, bson.M{"user_id": bson.M{"$in": idValues(userID)}})
}

func (m *Mongo) BySlot(ctx context.Context, slot string) (Reservation, error) {
	return m.one(ctx, bson.M{"country": slot})
}

func (m *Mongo) one(ctx context.Context, filter bson.M) (Reservation, error) {
	var d reservationDoc
	err := m.reservations.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Reservation{}, ErrNotFound
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return d.reservation(), nil
}

func (m *Mongo) Insert(ctx context.Context, r Reservation) error {
	_, err := m.reservations.InsertOne(ctx, reservationDoc{UserID: r.UserID, Country: r.Slot})
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), countryIndexName) {
			return ErrSlotTaken
		}
		return ErrUserReserved
	}
	return fmt.Errorf("insert reservation: %w", err)
}

func (m *Mongo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	res, err := m.reservations.DeleteMany(ctx, bson.M{"user_id": bson.M{"$in": idValues(userID)}})
	if err != nil {
		return 0, fmt.Errorf("delete reservation: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (m *Mongo) DeleteAll(ctx context.Context) (int, error) {
	res, err := m.reservations.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (m *Mongo) Display(ctx context.Context) (DisplayConfig, error) {
	var doc bson.M
	err := m.config.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return DisplayConfig{}, nil
	}
	if err != nil {
		return DisplayConfig{}, fmt.Errorf("get display config: %w", err)
	}
	return DisplayConfig{
		ChannelID: idString(doc["channel_id"]),
		MessageID: idString(doc["message_id"]),
	}, nil
}

func (m *Mongo) SaveDisplay(ctx context.Context, cfg DisplayConfig) error {
	set := bson.M{}
	if cfg.ChannelID != "" {
		set["channel_id"] = cfg.ChannelID
	}
	if cfg.MessageID != "" {
		set["message_id"] = cfg.MessageID
	}
	if len(set) == 0 {
		return nil
	}
	_, err := m.config.UpdateOne(ctx,
		bson.M{"_id": settingsID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save display config: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// idValues lists the stored forms an id may have.
func idValues(id string) bson.A {
	vals := bson.A{id}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		vals = append(vals, n)
	}
	return vals
}

func idString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
