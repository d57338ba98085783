package surveystats

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageKey(stage bson.D) string {
	if len(stage) == 0 {
		return ""
	}
	return stage[0].Key
}

func TestComposeKeepsStageOrder(t *testing.T) {
	t.Parallel()

	pipeline := Compose(
		MatchUser(primitive.NewObjectID()),
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
		GroupByQuestion(),
		SortByOrder(),
	)

	wantKeys := []string{
		"$match",
		"$unwind",
		"$lookup", "$unwind",
		"$lookup", "$unwind",
		"$match",
		"$group", "$project",
		"$sort",
	}
	if len(pipeline) != len(wantKeys) {
		t.Fatalf("expected %d stages, got %d", len(wantKeys), len(pipeline))
	}
	for i, want := range wantKeys {
		if got := stageKey(pipeline[i]); got != want {
			t.Errorf("stage %d: got %q, want %q", i, got, want)
		}
	}
}

func TestMatchCreatedAtWindowIsHalfOpen(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 9, 17, 0, 0, 0, testLoc)
	end := time.Date(2024, 1, 12, 17, 0, 0, 0, testLoc)

	stage := MatchCreatedAtWindow(start, end)[0]
	match, ok := stage[0].Value.(bson.M)
	if !ok {
		t.Fatalf("unexpected stage shape: %v", stage)
	}
	createdAt, ok := match["createdAt"].(bson.M)
	if !ok {
		t.Fatalf("missing createdAt filter: %v", match)
	}
	if createdAt["$gte"] != start {
		t.Errorf("window lower bound: got %v, want $gte %v", createdAt["$gte"], start)
	}
	if createdAt["$lt"] != end {
		t.Errorf("window upper bound: got %v, want $lt %v", createdAt["$lt"], end)
	}
}

func TestSortByAverageDirection(t *testing.T) {
	t.Parallel()

	asc := SortByAverage(SortAsc)[0]
	sortDoc := asc[0].Value.(bson.D)
	if sortDoc[0].Key != "average" || sortDoc[0].Value != 1 {
		t.Errorf("ascending sort: got %v", sortDoc)
	}

	desc := SortByAverage(SortDesc)[0]
	sortDoc = desc[0].Value.(bson.D)
	if sortDoc[0].Value != -1 {
		t.Errorf("descending sort: got %v", sortDoc)
	}
}

func TestJoinRespondentUnitKeepsUnitlessUsers(t *testing.T) {
	t.Parallel()

	stages := JoinRespondentUnit()
	unwind := stages[1][0].Value.(bson.M)
	if unwind["preserveNullAndEmptyArrays"] != true {
		t.Error("unit join must keep respondents without a unit")
	}
}
