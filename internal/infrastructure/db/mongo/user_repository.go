package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
)

const userCollection = "users"

// UserRepository persists accounts in MongoDB. Email uniqueness is enforced
// by a unique index, not by the application, so concurrent signups for the
// same email cannot both succeed.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique email index. Called once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	FirstName       string             `bson:"first_name,omitempty"`
	LastName        string             `bson:"last_name,omitempty"`
	Picture         string             `bson:"picture,omitempty"`
	Mobile          string             `bson:"mobile,omitempty"`
	PasswordHash    string             `bson:"password_hash,omitempty"`
	LoginFlow       string             `bson:"login_flow"`
	Role            string             `bson:"role"`
	IsEmailVerified bool               `bson:"is_email_verified"`
	IsPhoneVerified bool               `bson:"is_phone_verified"`
	BlockUser       bool               `bson:"block_user"`
	LastLogged      int64              `bson:"last_logged"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Picture:         user.Picture,
		Mobile:          user.Mobile,
		PasswordHash:    user.PasswordHash,
		LoginFlow:       string(user.LoginFlow),
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		IsPhoneVerified: user.IsPhoneVerified,
		BlockUser:       user.BlockUser,
		LastLogged:      user.LastLogged.Unix(),
		CreatedAt:       user.CreatedAt.Unix(),
		UpdatedAt:       user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, id string, fields ports.UserUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().Unix()}
	if fields.Mobile != nil {
		set["mobile"] = *fields.Mobile
	}
	if fields.Role != nil {
		set["role"] = *fields.Role
	}
	if fields.BlockUser != nil {
		set["block_user"] = *fields.BlockUser
	}
	if fields.LastLogged != nil {
		set["last_logged"] = fields.LastLogged.Unix()
	}

	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:              mu.ID.Hex(),
		Email:           mu.Email,
		FirstName:       mu.FirstName,
		LastName:        mu.LastName,
		Picture:         mu.Picture,
		Mobile:          mu.Mobile,
		PasswordHash:    mu.PasswordHash,
		LoginFlow:       domain.LoginFlow(mu.LoginFlow),
		Role:            mu.Role,
		IsEmailVerified: mu.IsEmailVerified,
		IsPhoneVerified: mu.IsPhoneVerified,
		BlockUser:       mu.BlockUser,
		LastLogged:      unixToTime(mu.LastLogged),
		CreatedAt:       unixToTime(mu.CreatedAt),
		UpdatedAt:       unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
