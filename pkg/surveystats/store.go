package surveystats

import (
	"go.mongodb.org/mongo-driver/mongo"

	surveydb "github.com/taufikRahadi/sisupel/pkg/db/survey"
)

// Store runs aggregation pipelines against the survey record store and
// decodes them into the engine's row shapes. Tests substitute a mock.
type Store interface {
	QuestionStats(pipeline mongo.Pipeline) ([]QuestionAverage, error)
	DayStats(pipeline mongo.Pipeline) ([]DayStat, error)
	SurveyMeans(pipeline mongo.Pipeline) ([]SurveyMean, error)
	RespondentRankRows(pipeline mongo.Pipeline) ([]RespondentRankRow, error)
	UnitRankRows(pipeline mongo.Pipeline) ([]UnitRankRow, error)
	Count(pipeline mongo.Pipeline) (int64, error)
}

// UnitCatalog resolves unit references; satisfied by the survey DB
// service.
type UnitCatalog interface {
	GetUnitByID(unitID string) (surveydb.Unit, error)
}

type mongoStore struct {
	db *surveydb.SurveyDBService
}

// NewStore wraps the survey DB service as the engine's pipeline runner.
func NewStore(db *surveydb.SurveyDBService) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) QuestionStats(pipeline mongo.Pipeline) ([]QuestionAverage, error) {
	var rows []QuestionAverage
	if err := s.db.RunSurveyAggregation(pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *mongoStore) DayStats(pipeline mongo.Pipeline) ([]DayStat, error) {
	var rows []DayStat
	if err := s.db.RunSurveyAggregation(pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *mongoStore) SurveyMeans(pipeline mongo.Pipeline) ([]SurveyMean, error) {
	var rows []SurveyMean
	if err := s.db.RunSurveyAggregation(pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *mongoStore) RespondentRankRows(pipeline mongo.Pipeline) ([]RespondentRankRow, error) {
	var rows []RespondentRankRow
	if err := s.db.RunSurveyAggregation(pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *mongoStore) UnitRankRows(pipeline mongo.Pipeline) ([]UnitRankRow, error) {
	var rows []UnitRankRow
	if err := s.db.RunSurveyAggregation(pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *mongoStore) Count(pipeline mongo.Pipeline) (int64, error) {
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := s.db.RunSurveyAggregation(pipeline, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
