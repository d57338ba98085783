package surveystats

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionsPerVisit is the fixed submission body length: every visit
// answers exactly this many questions. Used to approximate visit counts
// from answered-question counts; the result is an approximation, not an
// exact visit count.
const QuestionsPerVisit = 8

type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

func ParseSortDirection(s string) SortDirection {
	if s == "desc" {
		return SortDesc
	}
	return SortAsc
}

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// CalculateAverage is the self-average result.
type CalculateAverage struct {
	TotalSurveys int     `json:"totalSurvey"`
	Average      float64 `json:"average"`
}

// QuestionAverage is one per-question group result. It doubles as the
// aggregation decode target.
type QuestionAverage struct {
	QuestionID primitive.ObjectID `bson:"question" json:"question"`
	Question   string             `bson:"questionText" json:"questionText"`
	Order      int                `bson:"order" json:"order"`
	Average    float64            `bson:"average" json:"average"`
	Count      int64              `bson:"count" json:"count"`
}

// DayStat is one per-question-per-day group row (decode target).
type DayStat struct {
	QuestionID primitive.ObjectID `bson:"question" json:"question"`
	Date       string             `bson:"date" json:"date"`
	Average    float64            `bson:"average" json:"average"`
	Count      int64              `bson:"count" json:"count"`
}

// DayAverage is one date bucket after accumulation.
type DayAverage struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// SurveyMean is the per-submission mean used by the self-average path.
type SurveyMean struct {
	SurveyID primitive.ObjectID `bson:"survey" json:"survey"`
	Average  float64            `bson:"average" json:"average"`
	Count    int64              `bson:"count" json:"count"`
}

// UnitGlobalAverage carries either today's per-question rows
// (all == false) or the all-time weighted scalar (all == true).
type UnitGlobalAverage struct {
	UnitName     string            `json:"unitName,omitempty"`
	PerQuestion  []QuestionAverage `json:"perQuestion,omitempty"`
	Average      *float64          `json:"average,omitempty"`
	TotalAnswers int64             `json:"totalAnswers,omitempty"`
}

// SeriesResult carries per-question rows, or per-day weighted scalars
// when the accumulative form was requested.
type SeriesResult struct {
	UnitName    string            `json:"unitName,omitempty"`
	PerQuestion []QuestionAverage `json:"perQuestion,omitempty"`
	PerDay      []DayAverage      `json:"perDay,omitempty"`
}

// EssayCounts always carries all three fields; zero is a valid count.
type EssayCounts struct {
	Total          int64 `json:"total"`
	TodayTotal     int64 `json:"todayTotal"`
	YesterdayTotal int64 `json:"yesterdayTotal"`
}

// EssayScope restricts essay counting to a unit or a respondent; both
// empty means global.
type EssayScope struct {
	UnitID string
	UserID string
}

// RespondentRankRow is the per-respondent group decode target.
type RespondentRankRow struct {
	UserID   primitive.ObjectID `bson:"user" json:"user"`
	Fullname string             `bson:"fullname" json:"fullname"`
	UnitName string             `bson:"unitName" json:"unitName"`
	Average  float64            `bson:"average" json:"average"`
	Count    int64              `bson:"count" json:"count"`
}

// UnitRankRow is the per-unit group decode target.
type UnitRankRow struct {
	UnitID   primitive.ObjectID `bson:"unit" json:"unit"`
	UnitName string             `bson:"unitName" json:"unitName"`
	Average  float64            `bson:"average" json:"average"`
	Count    int64              `bson:"count" json:"count"`
}

type RespondentRank struct {
	UserID       primitive.ObjectID `json:"user"`
	Fullname     string             `json:"fullname"`
	UnitName     string             `json:"unitName"`
	Average      float64            `json:"averageAnswer"`
	ApproxVisits int64              `json:"count"`
}

type UnitRank struct {
	UnitID       primitive.ObjectID `json:"unit"`
	UnitName     string             `json:"unitName"`
	Average      float64            `json:"averageAnswer"`
	ApproxVisits int64              `json:"count"`
}

// GroupStat is the minimal shape the weighting step needs.
type GroupStat struct {
	Average float64
	Count   int64
}
