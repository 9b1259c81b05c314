package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/db/mongodb"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const USER_SEQUENCE = "user"

type tokenDocument struct {
	Value     string    `bson:"value"`
	Purpose   string    `bson:"purpose"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type userDocument struct {
	ID           int64          `bson:"_id"`
	Email        string         `bson:"email"`
	DisplayName  string         `bson:"display_name"`
	PasswordHash string         `bson:"password_hash"`
	Status       string         `bson:"status"`
	Token        *tokenDocument `bson:"token,omitempty"`
	IsDeleted    bool           `bson:"is_deleted"`
	CreatedAt    time.Time      `bson:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"`
}

type MongoUserRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &MongoUserRepository{db: db, users: db.Collection(mongodb.USERS_COLLECTION)}
}

func (r *MongoUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	id, err := mongodb.NextID(ctx, r.db, USER_SEQUENCE)
	if err != nil {
		return u, err
	}

	status := input.Status
	if status == "" {
		status = user.StatusUnverified
	}
	doc := userDocument{
		ID:           id,
		Email:        string(input.Email),
		DisplayName:  input.DisplayName,
		PasswordHash: string(input.PasswordHash),
		Status:       string(status),
		Token:        encodeToken(input.Token),
		CreatedAt:    input.CreatedAt,
		UpdatedAt:    input.CreatedAt,
	}
	_, err = r.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return u, user.ErrEmailAlreadyExists
	}
	if err != nil {
		return u, err
	}
	return decodeUser(doc), nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id user.ID) (user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: int64(id)}})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email c.Email) (user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: string(email)}})
}

func (r *MongoUserRepository) Update(ctx context.Context, input user.UpdateUserInput) (user.User, error) {
	set := bson.D{{Key: "updated_at", Value: input.At}}
	if input.DoDisplayNameUpdate {
		set = append(set, bson.E{Key: "display_name", Value: input.DisplayName})
	}
	return r.findOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: int64(input.ID)}},
		bson.D{{Key: "$set", Value: set}},
		user.ErrUserDoesNotExist,
	)
}

func (r *MongoUserRepository) SetToken(ctx context.Context, input user.SetTokenInput) (user.User, error) {
	return r.findOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: int64(input.ID)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "token", Value: encodeToken(c.Some(input.Token))},
			{Key: "updated_at", Value: input.At},
		}}},
		user.ErrUserDoesNotExist,
	)
}

func (r *MongoUserRepository) ConsumeToken(ctx context.Context, input user.ConsumeTokenInput) (user.User, error) {
	filter := bson.D{
		{Key: "_id", Value: int64(input.ID)},
		{Key: "token.value", Value: string(input.Value)},
		{Key: "token.purpose", Value: string(input.Purpose)},
		{Key: "token.expires_at", Value: bson.D{{Key: "$gte", Value: input.At}}},
	}
	set := bson.D{{Key: "updated_at", Value: input.At}}
	if input.Activate {
		set = append(set, bson.E{Key: "status", Value: string(user.StatusActive)})
	}
	if input.PasswordHash.IsPresent {
		set = append(set, bson.E{Key: "password_hash", Value: string(input.PasswordHash.Value)})
	}
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$unset", Value: bson.D{{Key: "token", Value: ""}}},
	}
	return r.findOneAndUpdate(ctx, filter, update, user.ErrInvalidToken)
}

func (r *MongoUserRepository) ClearToken(ctx context.Context, input user.ClearTokenInput) error {
	_, err := r.users.UpdateOne(
		ctx,
		notDeleted(bson.D{
			{Key: "_id", Value: int64(input.ID)},
			{Key: "token.purpose", Value: string(input.Purpose)},
		}),
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: input.At}}},
			{Key: "$unset", Value: bson.D{{Key: "token", Value: ""}}},
		},
	)
	return err
}

func (r *MongoUserRepository) SetPassword(ctx context.Context, input user.SetPasswordInput) error {
	return r.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: int64(input.ID)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "password_hash", Value: string(input.PasswordHash)},
			{Key: "updated_at", Value: input.At},
		}}},
	)
}

func (r *MongoUserRepository) Delete(ctx context.Context, id user.ID, at time.Time) error {
	return r.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: int64(id)}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "is_deleted", Value: true},
				{Key: "updated_at", Value: at},
			}},
			{Key: "$unset", Value: bson.D{{Key: "token", Value: ""}}},
		},
	)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (u user.User, err error) {
	var doc userDocument
	err = r.users.FindOne(ctx, notDeleted(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return decodeUser(doc), nil
}

func (r *MongoUserRepository) findOneAndUpdate(
	ctx context.Context,
	filter bson.D,
	update bson.D,
	errNoDocuments error,
) (u user.User, err error) {
	var doc userDocument
	err = r.users.FindOneAndUpdate(
		ctx,
		notDeleted(filter),
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, errNoDocuments
	}
	if err != nil {
		return u, err
	}
	return decodeUser(doc), nil
}

func (r *MongoUserRepository) updateOne(ctx context.Context, filter bson.D, update bson.D) error {
	result, err := r.users.UpdateOne(ctx, notDeleted(filter), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func notDeleted(filter bson.D) bson.D {
	return append(filter, bson.E{Key: "is_deleted", Value: false})
}

func encodeToken(token c.Optional[user.Token]) *tokenDocument {
	if !token.IsPresent {
		return nil
	}
	return &tokenDocument{
		Value:     string(token.Value.Value),
		Purpose:   string(token.Value.Purpose),
		ExpiresAt: token.Value.ExpiresAt,
	}
}

func decodeUser(doc userDocument) user.User {
	u := user.User{
		ID:           user.ID(doc.ID),
		Email:        c.Email(doc.Email),
		DisplayName:  doc.DisplayName,
		PasswordHash: user.PasswordHash(doc.PasswordHash),
		Status:       user.Status(doc.Status),
		IsDeleted:    doc.IsDeleted,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
	if doc.Token != nil {
		u.Token = c.Some(user.Token{
			Value:     user.TokenValue(doc.Token.Value),
			Purpose:   user.Purpose(doc.Token.Purpose),
			ExpiresAt: doc.Token.ExpiresAt.UTC(),
		})
	}
	return u
}
