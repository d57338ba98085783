package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *UserDBService) CreatePrivilege(privilege Privilege) (Privilege, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now()
	privilege.CreatedAt = now
	privilege.UpdatedAt = now

	res, err := dbService.collectionPrivileges().InsertOne(ctx, privilege)
	if err != nil {
		return privilege, err
	}
	privilege.ID = res.InsertedID.(primitive.ObjectID)
	return privilege, nil
}

func (dbService *UserDBService) GetPrivilegesByIDs(privilegeIDs []primitive.ObjectID) ([]Privilege, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cursor, err := dbService.collectionPrivileges().Find(ctx, bson.M{"_id": bson.M{"$in": privilegeIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var privileges []Privilege
	err = cursor.All(ctx, &privileges)
	return privileges, err
}

func (dbService *UserDBService) GetAllPrivileges() ([]Privilege, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := dbService.collectionPrivileges().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var privileges []Privilege
	err = cursor.All(ctx, &privileges)
	return privileges, err
}

// GetPrivilegeNamesForRole resolves a role's privilege ids to names.
func (dbService *UserDBService) GetPrivilegeNamesForRole(roleID string) ([]string, error) {
	role, err := dbService.GetRoleByID(roleID)
	if err != nil {
		return nil, err
	}

	privileges, err := dbService.GetPrivilegesByIDs(role.PrivilegeIDs)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(privileges))
	for _, p := range privileges {
		names = append(names, p.Name)
	}
	return names, nil
}
