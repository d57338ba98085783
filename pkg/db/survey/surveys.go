package survey

import (
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexesForSurveysCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("user_1_createdAt_1"),
	},
	{
		Keys: bson.D{
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("createdAt_1"),
	},
}

func (dbService *SurveyDBService) CreateDefaultIndexesForSurveysCollection() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionSurveys().Indexes().CreateMany(ctx, indexesForSurveysCollection)
	if err != nil {
		slog.Error("Error creating index for surveys", slog.String("error", err.Error()))
	}
}

func (dbService *SurveyDBService) CreateSurvey(survey Survey) (Survey, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = time.Now()
	}

	res, err := dbService.collectionSurveys().InsertOne(ctx, survey)
	if err != nil {
		return survey, err
	}
	survey.ID = res.InsertedID.(primitive.ObjectID)
	return survey, nil
}

func (dbService *SurveyDBService) GetSurveyByID(surveyID string) (Survey, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(surveyID)
	if err != nil {
		return Survey{}, err
	}

	var survey Survey
	err = dbService.collectionSurveys().FindOne(ctx, bson.M{"_id": _id}).Decode(&survey)
	return survey, err
}

// FindSurveysByUser returns a user's submissions, optionally limited and
// restricted to a createdAt window.
func (dbService *SurveyDBService) FindSurveysByUser(userID string, sortAsc bool, limit int64, from time.Time, until time.Time) ([]Survey, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"user": _id}
	if !from.IsZero() || !until.IsZero() {
		createdAt := bson.M{}
		if !from.IsZero() {
			createdAt["$gte"] = from
		}
		if !until.IsZero() {
			createdAt["$lt"] = until
		}
		filter["createdAt"] = createdAt
	}

	sortDir := 1
	if !sortAsc {
		sortDir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: sortDir}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := dbService.collectionSurveys().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []Survey
	err = cursor.All(ctx, &surveys)
	return surveys, err
}

func (dbService *SurveyDBService) CountSurveysByUser(userID string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, err
	}
	return dbService.collectionSurveys().CountDocuments(ctx, bson.M{"user": _id})
}

// CountSurveysCreatedBetween counts submissions in [from, until) for the
// given users. An empty userIDs slice counts globally.
func (dbService *SurveyDBService) CountSurveysCreatedBetween(userIDs []primitive.ObjectID, from time.Time, until time.Time) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"createdAt": bson.M{
			"$gte": from,
			"$lt":  until,
		},
	}
	if len(userIDs) > 0 {
		filter["user"] = bson.M{"$in": userIDs}
	}
	return dbService.collectionSurveys().CountDocuments(ctx, filter)
}

// CountSurveysWithQueuePrefix counts kiosk submissions whose queue
// number starts with the given day prefix (e.g. "/20240115/").
func (dbService *SurveyDBService) CountSurveysWithQueuePrefix(prefix string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"noAntrian": bson.M{"$regex": "^" + prefix},
	}
	return dbService.collectionSurveys().CountDocuments(ctx, filter)
}

// RunSurveyAggregation executes an aggregation pipeline against the
// surveys collection and decodes all results into the given slice pointer.
func (dbService *SurveyDBService) RunSurveyAggregation(pipeline mongo.Pipeline, results interface{}) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cursor, err := dbService.collectionSurveys().Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, results)
}
