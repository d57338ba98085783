package survey

import (
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrQuestionOrderTaken = errors.New("a question with this order already exists")

var indexesForSurveyQuestionsCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "order", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"isActive": true}).SetName("order_1_active"),
	},
	{
		Keys: bson.D{
			{Key: "isActive", Value: 1},
			{Key: "order", Value: 1},
		},
		Options: options.Index().SetName("isActive_1_order_1"),
	},
}

func (dbService *SurveyDBService) CreateDefaultIndexesForSurveyQuestionsCollection() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionSurveyQuestions().Indexes().CreateMany(ctx, indexesForSurveyQuestionsCollection)
	if err != nil {
		slog.Error("Error creating index for surveyQuestions", slog.String("error", err.Error()))
	}
}

// CreateSurveyQuestion rejects a question whose order collides with an
// already active question.
func (dbService *SurveyDBService) CreateSurveyQuestion(question SurveyQuestion) (SurveyQuestion, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	count, err := dbService.collectionSurveyQuestions().CountDocuments(ctx, bson.M{
		"order":    question.Order,
		"isActive": true,
	})
	if err != nil {
		return question, err
	}
	if count > 0 {
		return question, ErrQuestionOrderTaken
	}

	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	res, err := dbService.collectionSurveyQuestions().InsertOne(ctx, question)
	if err != nil {
		return question, err
	}
	question.ID = res.InsertedID.(primitive.ObjectID)
	return question, nil
}

func (dbService *SurveyDBService) GetSurveyQuestionByID(questionID string) (SurveyQuestion, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return SurveyQuestion{}, err
	}

	var question SurveyQuestion
	err = dbService.collectionSurveyQuestions().FindOne(ctx, bson.M{"_id": _id}).Decode(&question)
	return question, err
}

// GetActiveSurveyQuestions returns active questions sorted by order.
func (dbService *SurveyDBService) GetActiveSurveyQuestions() ([]SurveyQuestion, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := dbService.collectionSurveyQuestions().Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []SurveyQuestion
	err = cursor.All(ctx, &questions)
	return questions, err
}

func (dbService *SurveyDBService) GetAllSurveyQuestions() ([]SurveyQuestion, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := dbService.collectionSurveyQuestions().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []SurveyQuestion
	err = cursor.All(ctx, &questions)
	return questions, err
}

func (dbService *SurveyDBService) CountActiveSurveyQuestions() (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionSurveyQuestions().CountDocuments(ctx, bson.M{"isActive": true})
}

func (dbService *SurveyDBService) SetSurveyQuestionIsActive(questionID string, isActive bool, modifiedBy string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return err
	}
	modifier, err := primitive.ObjectIDFromHex(modifiedBy)
	if err != nil {
		return err
	}

	res, err := dbService.collectionSurveyQuestions().UpdateOne(ctx, bson.M{"_id": _id}, bson.M{
		"$set": bson.M{
			"isActive":       isActive,
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
