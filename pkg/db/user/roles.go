package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *UserDBService) CreateRole(role Role) (Role, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now

	res, err := dbService.collectionRoles().InsertOne(ctx, role)
	if err != nil {
		return role, err
	}
	role.ID = res.InsertedID.(primitive.ObjectID)
	return role, nil
}

func (dbService *UserDBService) GetRoleByID(roleID string) (Role, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return Role{}, err
	}

	var role Role
	err = dbService.collectionRoles().FindOne(ctx, bson.M{"_id": _id}).Decode(&role)
	return role, err
}

func (dbService *UserDBService) GetRoleByName(name string) (Role, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var role Role
	err := dbService.collectionRoles().FindOne(ctx, bson.M{"name": name}).Decode(&role)
	return role, err
}

func (dbService *UserDBService) GetAllRoles() ([]Role, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := dbService.collectionRoles().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []Role
	err = cursor.All(ctx, &roles)
	return roles, err
}

// SetRolePrivileges replaces the role's privilege set.
func (dbService *UserDBService) SetRolePrivileges(roleID string, privilegeIDs []primitive.ObjectID, modifiedBy primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionRoles().UpdateOne(ctx, bson.M{"_id": _id}, bson.M{
		"$set": bson.M{
			"privileges":     privilegeIDs,
			"lastModifiedBy": modifiedBy,
			"updatedAt":      time.Now(),
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
