package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/devconnector-be/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// userDocument is the BSON shape of a user in the "users" collection.
type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Avatar    string        `bson:"avatar"`
	Password  string        `bson:"password,omitempty"`
	CreatedAt time.Time     `bson:"date"`
}

func (d userDocument) toModel() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Avatar:       d.Avatar,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoUserStore keeps users in a MongoDB collection with a unique email index.
type MongoUserStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// ConnectMongo opens a client and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewMongoUserStore creates the store and ensures the unique email index.
func NewMongoUserStore(ctx context.Context, db *mongo.Database) (*MongoUserStore, error) {
	coll := db.Collection(usersCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create email index: %w", err)
	}
	return &MongoUserStore{coll: coll, now: time.Now}, nil
}

// FindByEmail retrieves a single user by email, including the password hash.
func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var doc userDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("mongo error: %w", err)
	}
	return doc.toModel(), nil
}

// FindByID retrieves a single user by ObjectID hex, projecting out the password.
func (s *MongoUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, ErrNotFound
	}

	opts := options.FindOne().SetProjection(bson.D{{Key: "password", Value: 0}})
	var doc userDocument
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("mongo error: %w", err)
	}
	return doc.toModel(), nil
}

// Create inserts a new user. A duplicate key on email yields ErrDuplicateEmail.
func (s *MongoUserStore) Create(ctx context.Context, u *models.User) error {
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Password:  u.PasswordHash,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("mongo error: %w", err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	return nil
}
