package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/aarynsmith/exercisetracker/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Count    int                `bson:"count"`
	Log      []logEntryDocument `bson:"log"`
}

type logEntryDocument struct {
	Description string  `bson:"description"`
	Duration    float64 `bson:"duration"`
	Date        string  `bson:"date"`
}

// MongoUserStore keeps one document per user with the log embedded.
type MongoUserStore struct {
	db *mongo.Database
}

func NewMongoUserStore(database *mongo.Database) *MongoUserStore {
	return &MongoUserStore{
		db: database,
	}
}

func (s *MongoUserStore) collection() *mongo.Collection {
	return s.db.Collection(db.UsersCollection)
}

func (s *MongoUserStore) ListIdentities(ctx context.Context) ([]domain.UserIdentity, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "username": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	identities := make([]domain.UserIdentity, 0, len(docs))
	for _, d := range docs {
		identities = append(identities, domain.UserIdentity{ID: d.ID.Hex(), Username: d.Username})
	}

	return identities, nil
}

func (s *MongoUserStore) FindOneByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// an id that is not an ObjectID cannot name a stored user
		return nil, domain.ErrUserNotFound
	}

	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := s.collection().FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return doc.toDomain(), nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := newUserDocument(user)

	res, err := s.collection().InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid

	return doc.toDomain(), nil
}

func (s *MongoUserStore) FindOneAndPushLog(ctx context.Context, id string, entry domain.LogEntry) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	update := bson.M{
		"$push": bson.M{"log": newLogEntryDocument(entry)},
		"$inc":  bson.M{"count": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	if err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return doc.toDomain(), nil
}

// EnsureIndexes creates a non-unique username index. Uniqueness stays a
// read-then-write check in the repository.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username", Value: 1}},
		},
	}

	_, err := s.collection().Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *MongoUserStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *MongoUserStore) Close(ctx context.Context) error {
	return db.DisconnectMongo(ctx, s.db.Client())
}

func newUserDocument(u *domain.User) userDocument {
	log := make([]logEntryDocument, 0, len(u.Log))
	for _, e := range u.Log {
		log = append(log, newLogEntryDocument(e))
	}

	return userDocument{
		Username: u.Username,
		Count:    u.Count,
		Log:      log,
	}
}

func newLogEntryDocument(e domain.LogEntry) logEntryDocument {
	return logEntryDocument{
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date,
	}
}

func (d userDocument) toDomain() *domain.User {
	log := make([]domain.LogEntry, 0, len(d.Log))
	for _, e := range d.Log {
		log = append(log, domain.LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		})
	}

	return &domain.User{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Count:    d.Count,
		Log:      log,
	}
}
