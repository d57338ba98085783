package user

import (
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexesForUsersCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "email", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("email_1"),
	},
	{
		Keys: bson.D{
			{Key: "unit", Value: 1},
		},
		Options: options.Index().SetName("unit_1"),
	},
	{
		Keys: bson.D{
			{Key: "role", Value: 1},
		},
		Options: options.Index().SetName("role_1"),
	},
}

func (dbService *UserDBService) CreateDefaultIndexesForUsersCollection() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionUsers().Indexes().CreateMany(ctx, indexesForUsersCollection)
	if err != nil {
		slog.Error("Error creating index for users", slog.String("error", err.Error()))
	}
}

func (dbService *UserDBService) CreateUser(user User) (User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := dbService.collectionUsers().InsertOne(ctx, user)
	if err != nil {
		return user, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (dbService *UserDBService) GetUserByID(userID string) (User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return User{}, err
	}

	var user User
	err = dbService.collectionUsers().FindOne(ctx, bson.M{"_id": _id}).Decode(&user)
	return user, err
}

func (dbService *UserDBService) GetUserByEmail(email string) (User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var user User
	err := dbService.collectionUsers().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, err
}

func (dbService *UserDBService) GetAllUsers() ([]User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "fullname", Value: 1}})
	cursor, err := dbService.collectionUsers().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	err = cursor.All(ctx, &users)
	return users, err
}

func (dbService *UserDBService) GetUsersInUnit(unitID primitive.ObjectID) ([]User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cursor, err := dbService.collectionUsers().Find(ctx, bson.M{"unit": unitID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	err = cursor.All(ctx, &users)
	return users, err
}

func (dbService *UserDBService) GetUsersByRole(roleID primitive.ObjectID) ([]User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cursor, err := dbService.collectionUsers().Find(ctx, bson.M{"role": roleID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	err = cursor.All(ctx, &users)
	return users, err
}

func (dbService *UserDBService) UpdateUserLastLogin(userID string, lastLogin time.Time) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": _id}, bson.M{
		"$set": bson.M{
			"lastLogin": lastLogin,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (dbService *UserDBService) UpdateUserPhoto(userID string, photo string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": _id}, bson.M{
		"$set": bson.M{
			"photo":     photo,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (dbService *UserDBService) SetUserIsActive(userID string, isActive bool) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": _id}, bson.M{
		"$set": bson.M{
			"isActive":  isActive,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return mongo.ErrNoDocuments
	}
	return nil
}
