package survey

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *SurveyDBService) CreateSurveyAnswer(answer SurveyAnswer) (SurveyAnswer, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	answer.CreatedAt = time.Now()

	res, err := dbService.collectionSurveyAnswers().InsertOne(ctx, answer)
	if err != nil {
		return answer, err
	}
	answer.ID = res.InsertedID.(primitive.ObjectID)
	return answer, nil
}

func (dbService *SurveyDBService) GetSurveyAnswerByID(answerID string) (SurveyAnswer, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return SurveyAnswer{}, err
	}

	var answer SurveyAnswer
	err = dbService.collectionSurveyAnswers().FindOne(ctx, bson.M{"_id": _id}).Decode(&answer)
	return answer, err
}

// GetAllSurveyAnswers returns the answer scale sorted by value.
func (dbService *SurveyDBService) GetAllSurveyAnswers() ([]SurveyAnswer, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "value", Value: 1}})
	cursor, err := dbService.collectionSurveyAnswers().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []SurveyAnswer
	err = cursor.All(ctx, &answers)
	return answers, err
}
