package survey

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// question types
const (
	QUESTION_TYPE_KUESIONER = "KUESIONER"
	QUESTION_TYPE_ESSAY     = "ESSAY"
)

// SurveyItem is one answered question inside a submission body.
// Text is only set for essay questions.
type SurveyItem struct {
	QuestionID primitive.ObjectID `bson:"question" json:"question"`
	AnswerID   primitive.ObjectID `bson:"answer" json:"answer"`
	Text       string             `bson:"text,omitempty" json:"text,omitempty"`
}

// Survey is an immutable submission; there is no update or delete path.
type Survey struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	QueueNo   string             `bson:"noAntrian,omitempty" json:"noAntrian,omitempty"`
	Body      []SurveyItem       `bson:"body" json:"body"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type SurveyQuestion struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Question       string             `bson:"question" json:"question"`
	Type           string             `bson:"type" json:"type"`
	Order          int                `bson:"order" json:"order"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	LastModifiedBy primitive.ObjectID `bson:"lastModifiedBy,omitempty" json:"lastModifiedBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SurveyAnswer is immutable reference data. Value 0 is a sentinel for
// "not a real rating" and is excluded from averaging in some paths.
type SurveyAnswer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title          string             `bson:"title" json:"title"`
	Value          int                `bson:"value" json:"value"`
	LastModifiedBy primitive.ObjectID `bson:"lastModifiedBy,omitempty" json:"lastModifiedBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

type Unit struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	LastModifiedBy primitive.ObjectID `bson:"lastModifiedBy,omitempty" json:"lastModifiedBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
