package surveystats

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	surveydb "github.com/taufikRahadi/sisupel/pkg/db/survey"
)

const (
	questionTypeKuesioner = surveydb.QUESTION_TYPE_KUESIONER
	questionTypeEssay     = surveydb.QUESTION_TYPE_ESSAY
)

// Stage builders for the questionnaire mean pipeline. Every averaging
// operation composes the same skeleton: select surveys, unwind the body,
// join question and answer references, filter by question type, group by
// the requested dimension, sort. Each builder returns the stages it
// contributes so pipelines stay composable and testable.

func MatchUser(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
	}
}

// MatchCreatedAtWindow selects surveys in the half-open window
// [start, end).
func MatchCreatedAtWindow(start time.Time, end time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{
				"$gte": start,
				"$lt":  end,
			},
		}}},
	}
}

// MatchCreatedAtDayOfMonth selects surveys whose createdAt falls on the
// given calendar day-of-month in tz (the day-equality variant).
func MatchCreatedAtDayOfMonth(day int, tz string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"$expr": bson.M{
				"$eq": bson.A{
					bson.M{"$dayOfMonth": bson.M{"date": "$createdAt", "timezone": tz}},
					day,
				},
			},
		}}},
	}
}

// JoinRespondent resolves the submitting user; rows without a matching
// user are dropped by the unwind.
func JoinRespondent() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "userRef",
		}}},
		{{Key: "$unwind", Value: "$userRef"}},
	}
}

func MatchRespondentUnit(unitID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userRef.unit": unitID}}},
	}
}

// JoinRespondentRole resolves the respondent's role; requires
// JoinRespondent first.
func JoinRespondentRole() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "roles",
			"localField":   "userRef.role",
			"foreignField": "_id",
			"as":           "roleRef",
		}}},
		{{Key: "$unwind", Value: "$roleRef"}},
	}
}

func MatchRoleName(roleName string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"roleRef.name": roleName}}},
	}
}

// JoinRespondentUnit resolves the respondent's unit; keeps respondents
// without a unit (the unit field is optional).
func JoinRespondentUnit() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "units",
			"localField":   "userRef.unit",
			"foreignField": "_id",
			"as":           "unitRef",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$unitRef",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// UnwindBody flattens a submission into one row per answered question.
func UnwindBody() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$body"}},
	}
}

func JoinQuestion() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         surveydb.COLLECTION_NAME_SURVEY_QUESTIONS,
			"localField":   "body.question",
			"foreignField": "_id",
			"as":           "questionRef",
		}}},
		{{Key: "$unwind", Value: "$questionRef"}},
	}
}

func JoinAnswer() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         surveydb.COLLECTION_NAME_SURVEY_ANSWERS,
			"localField":   "body.answer",
			"foreignField": "_id",
			"as":           "answerRef",
		}}},
		{{Key: "$unwind", Value: "$answerRef"}},
	}
}

func MatchQuestionType(questionType string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"questionRef.type": questionType}}},
	}
}

// MatchNonZeroAnswer drops the value-0 sentinel rows. Only some
// aggregation variants apply this stage; the difference is intentional
// and kept per operation.
func MatchNonZeroAnswer() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"answerRef.value": bson.M{"$ne": 0}}}},
	}
}

func MatchEssayText() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"body.text": bson.M{"$exists": true, "$ne": ""}}}},
	}
}

// GroupByQuestion computes the unweighted mean per question.
func GroupByQuestion() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          "$body.question",
			"questionText": bson.M{"$first": "$questionRef.question"},
			"order":        bson.M{"$first": "$questionRef.order"},
			"average":      bson.M{"$avg": "$answerRef.value"},
			"count":        bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"question":     "$_id",
			"questionText": 1,
			"order":        1,
			"average":      1,
			"count":        1,
		}}},
	}
}

// GroupByQuestionAndDay buckets rows per question per calendar day in tz.
func GroupByQuestionAndDay(tz string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"question": "$body.question",
				"date": bson.M{"$dateToString": bson.M{
					"format":   "%Y-%m-%d",
					"date":     "$createdAt",
					"timezone": tz,
				}},
			},
			"average": bson.M{"$avg": "$answerRef.value"},
			"count":   bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"question": "$_id.question",
			"date":     "$_id.date",
			"average":  1,
			"count":    1,
		}}},
	}
}

// GroupBySurvey computes the mean per submission (self-average path).
func GroupBySurvey() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$_id",
			"average": bson.M{"$avg": "$answerRef.value"},
			"count":   bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":     0,
			"survey":  "$_id",
			"average": 1,
			"count":   1,
		}}},
	}
}

// GroupByRespondent computes the mean per submitting user; requires
// JoinRespondent and JoinRespondentUnit.
func GroupByRespondent() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      "$user",
			"fullname": bson.M{"$first": "$userRef.fullname"},
			"unitName": bson.M{"$first": "$unitRef.name"},
			"average":  bson.M{"$avg": "$answerRef.value"},
			"count":    bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"user":     "$_id",
			"fullname": 1,
			"unitName": 1,
			"average":  1,
			"count":    1,
		}}},
	}
}

// GroupByUnit computes the mean per unit; requires JoinRespondent and
// JoinRespondentUnit.
func GroupByUnit() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      "$userRef.unit",
			"unitName": bson.M{"$first": "$unitRef.name"},
			"average":  bson.M{"$avg": "$answerRef.value"},
			"count":    bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"unit":     "$_id",
			"unitName": 1,
			"average":  1,
			"count":    1,
		}}},
	}
}

// GroupToCount counts the distinct surveys that survived the filters.
func GroupToCount() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$_id"}}},
		{{Key: "$count", Value: "total"}},
	}
}

// SortByOrder sorts per-question rows by the question ranking order.
func SortByOrder() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "order", Value: 1}}}},
	}
}

// SortByAverage sorts rank rows by mean; ascending surfaces the lowest
// score first ("needs attention" framing).
func SortByAverage(direction SortDirection) mongo.Pipeline {
	dir := 1
	if direction == SortDesc {
		dir = -1
	}
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{
			{Key: "average", Value: dir},
			{Key: "count", Value: -1},
		}}},
	}
}

func Limit(n int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$limit", Value: n}},
	}
}

// Compose concatenates stage groups into one pipeline.
func Compose(parts ...mongo.Pipeline) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	for _, part := range parts {
		pipeline = append(pipeline, part...)
	}
	return pipeline
}
