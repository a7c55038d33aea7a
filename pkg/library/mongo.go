package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/chordgen/pkg/core/chord"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "chordgen"
	DefaultMongoCollection = "chords"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the stored document. Strings use the compact form so
// documents stay readable in the shell.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	NameKey   string    `bson:"name_key"`
	Strings   string    `bson:"strings"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewMongoStore connects to opts.URI, checks the connection and makes sure
// the name index exists.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultMongoTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewMongoStoreFromCollection(client.Database(opts.Database).Collection(opts.Collection))
	s.client = client
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromCollection wraps an existing collection. Close does not
// disconnect a client the store did not create.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name_key", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create name index: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.D{}, opts)
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, notFound(id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get chord %s: %w", id, err)
	}
	return doc.record()
}

func (s *MongoStore) FindByName(ctx context.Context, name string) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.D{{Key: "name_key", Value: nameKey(name)}}, opts)
}

func (s *MongoStore) Put(ctx context.Context, c chord.Chord) (Record, error) {
	rec, err := NewRecord(c)
	if err != nil {
		return Record{}, err
	}
	// Mongo stores milliseconds; truncate so the returned record matches
	// what a later Get decodes.
	rec.CreatedAt = rec.CreatedAt.Truncate(time.Millisecond)
	if _, err := s.coll.InsertOne(ctx, newMongoRecord(rec)); err != nil {
		return Record{}, fmt.Errorf("insert chord: %w", err)
	}
	return rec, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete chord %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client if the store created it.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

func (s *MongoStore) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]Record, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find chords: %w", err)
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode chords: %w", err)
	}
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec, err := d.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func newMongoRecord(r Record) mongoRecord {
	return mongoRecord{
		ID:        r.ID,
		Name:      r.Chord.Name,
		NameKey:   nameKey(r.Chord.Name),
		Strings:   r.Chord.Compact(),
		CreatedAt: r.CreatedAt,
	}
}

func (d mongoRecord) record() (Record, error) {
	strs, err := chord.ParseStrings(d.Strings)
	if err != nil {
		return Record{}, fmt.Errorf("chord %s: %w", d.ID, err)
	}
	return Record{
		ID:        d.ID,
		Chord:     chord.Chord{Name: d.Name, Strings: strs},
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

var _ Store = (*MongoStore)(nil)
