package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("db: user not found")
	ErrUserExists   = errors.New("db: username or email already taken")
)

func (m *Mongo) InsertUser(ctx context.Context, user models.User) error {
	_, err := m.Users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("mongo: insert user: %w", err)
	}
	return nil
}

func (m *Mongo) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := m.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("mongo: get user: %w", err)
	}
	return &user, nil
}

func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("mongo: get user by email: %w", err)
	}
	return &user, nil
}

// UpdateUser applies the staged fields as a single $set and returns the
// post-write record. Fields must already be validated; the write is the
// only side effect of an update request.
func (m *Mongo) UpdateUser(ctx context.Context, id string, fields bson.M) (*models.User, error) {
	fields["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result := m.Users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts)

	var user models.User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("mongo: update user: %w", err)
	}
	return &user, nil
}

func (m *Mongo) DeleteUser(ctx context.Context, id string) error {
	result, err := m.Users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns one page of users ordered by creation time.
func (m *Mongo) ListUsers(ctx context.Context, skip, limit int64, sortAsc bool) ([]models.User, error) {
	direction := -1
	if sortAsc {
		direction = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: direction}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := m.Users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("mongo: decode users: %w", err)
	}
	return users, nil
}

func (m *Mongo) CountUsers(ctx context.Context) (int64, error) {
	count, err := m.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo: count users: %w", err)
	}
	return count, nil
}

func (m *Mongo) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	count, err := m.Users.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("mongo: count recent users: %w", err)
	}
	return count, nil
}
