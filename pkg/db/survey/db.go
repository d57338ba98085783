package survey

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
	COLLECTION_NAME_SURVEYS          = "surveys"
	COLLECTION_NAME_SURVEY_QUESTIONS = "surveyQuestions"
	COLLECTION_NAME_SURVEY_ANSWERS   = "surveyAnswers"
	COLLECTION_NAME_UNITS            = "units"
)

type SurveyDBService struct {
	DBClient *mongo.Client
	timeout  int
	DBName   string
}

func NewSurveyDBService(configs db.DBConfig) (*SurveyDBService, error) {
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

	sDBSc := &SurveyDBService{
		DBClient: dbClient,
		timeout:  configs.Timeout,
		DBName:   configs.DBName,
	}
	return sDBSc, nil
}

func (dbService *SurveyDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *SurveyDBService) collectionSurveys() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_SURVEYS)
}

func (dbService *SurveyDBService) collectionSurveyQuestions() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_SURVEY_QUESTIONS)
}

func (dbService *SurveyDBService) collectionSurveyAnswers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_SURVEY_ANSWERS)
}

func (dbService *SurveyDBService) collectionUnits() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_UNITS)
}

func (dbService *SurveyDBService) CreateDefaultIndexes() {
	dbService.CreateDefaultIndexesForSurveysCollection()
	dbService.CreateDefaultIndexesForSurveyQuestionsCollection()
	dbService.CreateDefaultIndexesForUnitsCollection()
}

// ListAllIndexes returns the indexes currently present per collection.
func (dbService *SurveyDBService) ListAllIndexes() (map[string][]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collections := map[string]*mongo.Collection{
		COLLECTION_NAME_SURVEYS:          dbService.collectionSurveys(),
		COLLECTION_NAME_SURVEY_QUESTIONS: dbService.collectionSurveyQuestions(),
		COLLECTION_NAME_SURVEY_ANSWERS:   dbService.collectionSurveyAnswers(),
		COLLECTION_NAME_UNITS:            dbService.collectionUnits(),
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
