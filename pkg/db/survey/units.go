package survey

import (
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexesForUnitsCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("name_1"),
	},
}

func (dbService *SurveyDBService) CreateDefaultIndexesForUnitsCollection() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionUnits().Indexes().CreateMany(ctx, indexesForUnitsCollection)
	if err != nil {
		slog.Error("Error creating index for units", slog.String("error", err.Error()))
	}
}

// CreateUnit stores the unit name upper-cased; uniqueness is enforced by
// the name index.
func (dbService *SurveyDBService) CreateUnit(unit Unit) (Unit, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now()
	unit.Name = strings.ToUpper(strings.TrimSpace(unit.Name))
	unit.CreatedAt = now
	unit.UpdatedAt = now

	res, err := dbService.collectionUnits().InsertOne(ctx, unit)
	if err != nil {
		return unit, err
	}
	unit.ID = res.InsertedID.(primitive.ObjectID)
	return unit, nil
}

func (dbService *SurveyDBService) GetUnitByID(unitID string) (Unit, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(unitID)
	if err != nil {
		return Unit{}, err
	}

	var unit Unit
	err = dbService.collectionUnits().FindOne(ctx, bson.M{"_id": _id}).Decode(&unit)
	return unit, err
}

func (dbService *SurveyDBService) GetUnitByName(name string) (Unit, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var unit Unit
	err := dbService.collectionUnits().FindOne(ctx, bson.M{"name": strings.ToUpper(strings.TrimSpace(name))}).Decode(&unit)
	return unit, err
}

func (dbService *SurveyDBService) GetAllUnits() ([]Unit, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := dbService.collectionUnits().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var units []Unit
	err = cursor.All(ctx, &units)
	return units, err
}

func (dbService *SurveyDBService) RenameUnit(unitID string, newName string, modifiedBy string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(unitID)
	if err != nil {
		return err
	}
	modifier, err := primitive.ObjectIDFromHex(modifiedBy)
	if err != nil {
		return err
	}

	res, err := dbService.collectionUnits().UpdateOne(ctx, bson.M{"_id": _id}, bson.M{
		"$set": bson.M{
			"name":           strings.ToUpper(strings.TrimSpace(newName)),
			"lastModifiedBy": modifier,
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
