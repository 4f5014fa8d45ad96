// Package mongo implements the stores on a MongoDB document database using
// the collections the service has always used: `user` for credentials and
// `organization` for organizations with their embedded member array.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/org"
)

const (
	usersCollection         = "user"
	organizationsCollection = "organization"
)

// Store bundles the mongo-backed stores over one client.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to the given URI and selects the database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	db := client.Database(database)
	// A unique index on email backs the signup Conflict contract.
	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{client: client, db: db}, nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// Ping reports connectivity for the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Users returns the auth.UserStore implementation.
func (s *Store) Users() auth.UserStore {
	return &userStore{col: s.db.Collection(usersCollection)}
}

// Organizations returns the org.Store implementation.
func (s *Store) Organizations() org.Store {
	return &orgStore{col: s.db.Collection(organizationsCollection)}
}

// Users ----------------------------------------------------------------------

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"created_at"`
}

type userStore struct{ col *mongo.Collection }

var _ auth.UserStore = (*userStore)(nil)

func (s *userStore) Create(ctx context.Context, u *auth.User) error {
	_, err := s.col.InsertOne(ctx, userDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return auth.ErrConflict
	}
	return err
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	var doc userDoc
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	return auth.User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// Organizations --------------------------------------------------------------

type orgStore struct{ col *mongo.Collection }

var _ org.Store = (*orgStore)(nil)

func (s *orgStore) Insert(ctx context.Context, o *org.Organization) error {
	_, err := s.col.InsertOne(ctx, o)
	return err
}

func (s *orgStore) Find(ctx context.Context, id string) (org.Organization, error) {
	var o org.Organization
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return org.Organization{}, org.ErrNotFound
		}
		return org.Organization{}, err
	}
	return o, nil
}

func (s *orgStore) List(ctx context.Context) ([]org.Organization, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []org.Organization
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update reports ModifiedCount so an identical or absent document surfaces as
// the no-change signal, the native behavior of a $set update. updated_at is
// deliberately left out of the $set: touching it would defeat the signal.
func (s *orgStore) Update(ctx context.Context, id string, upd org.Update) (bool, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":        upd.Name,
		"description": upd.Description,
	}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *orgStore) Delete(ctx context.Context, id string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *orgStore) AppendMember(ctx context.Context, id string, m org.Member) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"organization_members": m},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return org.ErrNotFound
	}
	return nil
}
