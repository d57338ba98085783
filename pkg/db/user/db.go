package user

import (
	"context"
	"time"

	"github.com/taufikRahadi/sisupel/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_USERS      = "users"
	COLLECTION_NAME_ROLES      = "roles"
	COLLECTION_NAME_PRIVILEGES = "rolePrivileges"
)

type UserDBService struct {
	DBClient *mongo.Client
	timeout  int
	DBName   string
}

func NewUserDBService(configs db.DBConfig) (*UserDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	uDBSc := &UserDBService{
		DBClient: dbClient,
		timeout:  configs.Timeout,
		DBName:   configs.DBName,
	}
	return uDBSc, nil
}

func (dbService *UserDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *UserDBService) collectionUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_USERS)
}

func (dbService *UserDBService) collectionRoles() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_ROLES)
}

func (dbService *UserDBService) collectionPrivileges() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_PRIVILEGES)
}

func (dbService *UserDBService) CreateDefaultIndexes() {
	dbService.CreateDefaultIndexesForUsersCollection()
}

// ListAllIndexes returns the indexes currently present per collection.
func (dbService *UserDBService) ListAllIndexes() (map[string][]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collections := map[string]*mongo.Collection{
		COLLECTION_NAME_USERS:      dbService.collectionUsers(),
		COLLECTION_NAME_ROLES:      dbService.collectionRoles(),
		COLLECTION_NAME_PRIVILEGES: dbService.collectionPrivileges(),
	}

	indexes := map[string][]bson.M{}
	for name, coll := range collections {
		list, err := db.ListCollectionIndexes(ctx, coll)
		if err != nil {
			return nil, err
		}
		indexes[name] = list
	}
	return indexes, nil
}
