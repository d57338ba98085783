package surveystats

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	surveydb "github.com/taufikRahadi/sisupel/pkg/db/survey"
)

type mockStore struct {
	questionStats []QuestionAverage
	dayStats      []DayStat
	surveyMeans   []SurveyMean
	respondents   []RespondentRankRow
	unitRanks     []UnitRankRow
	counts        []int64
	err           error

	pipelines []mongo.Pipeline
	countCall int
}

func (m *mockStore) record(p mongo.Pipeline) {
	m.pipelines = append(m.pipelines, p)
}

func (m *mockStore) QuestionStats(p mongo.Pipeline) ([]QuestionAverage, error) {
	m.record(p)
	return m.questionStats, m.err
}

func (m *mockStore) DayStats(p mongo.Pipeline) ([]DayStat, error) {
	m.record(p)
	return m.dayStats, m.err
}

func (m *mockStore) SurveyMeans(p mongo.Pipeline) ([]SurveyMean, error) {
	m.record(p)
	return m.surveyMeans, m.err
}

func (m *mockStore) RespondentRankRows(p mongo.Pipeline) ([]RespondentRankRow, error) {
	m.record(p)
	return m.respondents, m.err
}

func (m *mockStore) UnitRankRows(p mongo.Pipeline) ([]UnitRankRow, error) {
	m.record(p)
	return m.unitRanks, m.err
}

func (m *mockStore) Count(p mongo.Pipeline) (int64, error) {
	m.record(p)
	if m.err != nil {
		return 0, m.err
	}
	c := m.counts[m.countCall]
	m.countCall++
	return c, nil
}

type mockUnitCatalog struct {
	units map[string]surveydb.Unit
}

func (m *mockUnitCatalog) GetUnitByID(unitID string) (surveydb.Unit, error) {
	unit, ok := m.units[unitID]
	if !ok {
		return surveydb.Unit{}, mongo.ErrNoDocuments
	}
	return unit, nil
}

func newTestService(store *mockStore, units *mockUnitCatalog) *Service {
	svc := NewService(store, units, testLoc)
	svc.now = func() time.Time {
		return time.Date(2024, 1, 15, 10, 0, 0, 0, testLoc)
	}
	return svc
}

func pipelineContains(p mongo.Pipeline, substr string) bool {
	return strings.Contains(fmt.Sprintf("%v", p), substr)
}

// pipelineFiltersZeroAnswers looks for the `answerRef.value != 0` match
// stage. A substring check is not enough here because every averaging
// pipeline mentions the field in its $avg expression.
func pipelineFiltersZeroAnswers(p mongo.Pipeline) bool {
	for _, stage := range p {
		for _, e := range stage {
			if e.Key != "$match" {
				continue
			}
			match, ok := e.Value.(bson.M)
			if !ok {
				continue
			}
			cond, ok := match["answerRef.value"].(bson.M)
			if !ok {
				continue
			}
			if ne, found := cond["$ne"]; found && ne == 0 {
				return true
			}
		}
	}
	return false
}

func TestCalculateSelfAverage(t *testing.T) {
	t.Parallel()

	t.Run("no submissions is ErrNoData", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		svc := newTestService(store, &mockUnitCatalog{})

		_, err := svc.CalculateSelfAverage(primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrNoData) {
			t.Fatalf("expected ErrNoData, got %v", err)
		}
	})

	t.Run("mean over per-survey means", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{
			surveyMeans: []SurveyMean{
				{Average: 4, Count: 8},
				{Average: 2, Count: 8},
			},
		}
		svc := newTestService(store, &mockUnitCatalog{})

		res, err := svc.CalculateSelfAverage(primitive.NewObjectID().Hex())
		if err != nil {
			t.Fatal(err)
		}
		if res.TotalSurveys != 2 {
			t.Errorf("totalSurveys: got %d, want 2", res.TotalSurveys)
		}
		if !almostEqual(res.Average, 3) {
			t.Errorf("average: got %v, want 3", res.Average)
		}
	})

	t.Run("invalid user id", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&mockStore{}, &mockUnitCatalog{})
		_, err := svc.CalculateSelfAverage("not-an-id")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestCalculateUnitAverage(t *testing.T) {
	t.Parallel()

	unitID := primitive.NewObjectID()
	catalog := &mockUnitCatalog{units: map[string]surveydb.Unit{
		unitID.Hex(): {ID: unitID, Name: "FRONT DESK"},
	}}

	t.Run("all-time weighted scalar", func(t *testing.T) {
		t.Parallel()
		// 3 respondents answering the same 2 questions with [5,5],
		// [3,3], [1,1]: both per-question means are 3 with 3 answers
		// each, so the aggregate scalar is 3.0.
		store := &mockStore{
			questionStats: []QuestionAverage{
				{Question: "Q1", Order: 1, Average: 3, Count: 3},
				{Question: "Q2", Order: 2, Average: 3, Count: 3},
			},
		}
		svc := newTestService(store, catalog)

		res, err := svc.CalculateUnitAverage(unitID.Hex(), true)
		if err != nil {
			t.Fatal(err)
		}
		if res.UnitName != "FRONT DESK" {
			t.Errorf("unitName: got %q", res.UnitName)
		}
		if res.Average == nil || !almostEqual(*res.Average, 3) {
			t.Errorf("average: got %v, want 3", res.Average)
		}
		if res.TotalAnswers != 6 {
			t.Errorf("totalAnswers: got %d, want 6", res.TotalAnswers)
		}
	})

	t.Run("zero submissions yield empty per-question rows, not an error", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		svc := newTestService(store, catalog)

		res, err := svc.CalculateUnitAverage(unitID.Hex(), false)
		if err != nil {
			t.Fatal(err)
		}
		if res.PerQuestion == nil || len(res.PerQuestion) != 0 {
			t.Errorf("expected empty perQuestion slice, got %v", res.PerQuestion)
		}
	})

	t.Run("unknown unit is ErrNotFound", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&mockStore{}, catalog)
		_, err := svc.CalculateUnitAverage(primitive.NewObjectID().Hex(), false)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed unit reference is ErrInvalidArgument", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&mockStore{}, catalog)
		_, err := svc.CalculateUnitAverage("garbage", false)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unit path filters the zero-value sentinel", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		svc := newTestService(store, catalog)

		if _, err := svc.CalculateUnitAverage(unitID.Hex(), true); err != nil {
			t.Fatal(err)
		}
		if !pipelineFiltersZeroAnswers(store.pipelines[0]) {
			t.Error("unit average pipeline should exclude answerRef.value == 0")
		}
	})
}

func TestCalculateGlobalAverageKeepsZeroValues(t *testing.T) {
	t.Parallel()

	// Unlike the unit path, the global path filters only by question
	// type; the two behaviors are intentionally not unified.
	store := &mockStore{}
	svc := newTestService(store, &mockUnitCatalog{})

	if _, err := svc.CalculateGlobalAverage(true); err != nil {
		t.Fatal(err)
	}
	if pipelineFiltersZeroAnswers(store.pipelines[0]) {
		t.Error("global average pipeline must not filter zero answer values")
	}
	if !pipelineContains(store.pipelines[0], "questionRef.type") {
		t.Error("global average pipeline should filter by question type")
	}
}

func TestCalculateGlobalSeries(t *testing.T) {
	t.Parallel()

	t.Run("accumulative collapses per day", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{
			dayStats: []DayStat{
				{Date: "2024-01-11", Average: 4, Count: 4},
				{Date: "2024-01-10", Average: 2, Count: 4},
				{Date: "2024-01-10", Average: 4, Count: 4},
			},
		}
		svc := newTestService(store, &mockUnitCatalog{})

		rng := &DateRange{
			From: time.Date(2024, 1, 10, 0, 0, 0, 0, testLoc),
			To:   time.Date(2024, 1, 12, 0, 0, 0, 0, testLoc),
		}
		res, err := svc.CalculateGlobalSeries(rng, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(res.PerDay) != 2 {
			t.Fatalf("expected 2 day buckets, got %d", len(res.PerDay))
		}
		if res.PerDay[0].Date != "2024-01-10" {
			t.Errorf("expected ascending dates, got %q first", res.PerDay[0].Date)
		}
		if !almostEqual(res.PerDay[0].Average, 3) {
			t.Errorf("day bucket average: got %v, want 3", res.PerDay[0].Average)
		}
	})

	t.Run("without range uses the day-equality path", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		svc := newTestService(store, &mockUnitCatalog{})

		if _, err := svc.CalculateGlobalSeries(nil, false); err != nil {
			t.Fatal(err)
		}
		if !pipelineContains(store.pipelines[0], "$dayOfMonth") {
			t.Error("expected day-of-month equality match without a range")
		}
	})
}

func TestCountEssays(t *testing.T) {
	t.Parallel()

	t.Run("one essay today, none yesterday", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{counts: []int64{1, 1, 0}}
		svc := newTestService(store, &mockUnitCatalog{})

		counts, err := svc.CountEssays(EssayScope{})
		if err != nil {
			t.Fatal(err)
		}
		want := EssayCounts{Total: 1, TodayTotal: 1, YesterdayTotal: 0}
		if counts != want {
			t.Errorf("counts: got %+v, want %+v", counts, want)
		}
	})

	t.Run("all zero counts are a valid success", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{counts: []int64{0, 0, 0}}
		svc := newTestService(store, &mockUnitCatalog{})

		counts, err := svc.CountEssays(EssayScope{})
		if err != nil {
			t.Fatal(err)
		}
		if counts != (EssayCounts{}) {
			t.Errorf("counts: got %+v, want all zero", counts)
		}
	})
}

func TestRankRespondentsByRole(t *testing.T) {
	t.Parallel()

	t.Run("ascending surfaces the lowest score", func(t *testing.T) {
		t.Parallel()
		worst := primitive.NewObjectID()
		store := &mockStore{
			respondents: []RespondentRankRow{
				{UserID: worst, Fullname: "C", UnitName: "FRONT DESK", Average: 1, Count: 2},
			},
		}
		svc := newTestService(store, &mockUnitCatalog{})

		ranks, err := svc.RankRespondentsByRole("FRONT DESK", 1, SortAsc, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(ranks) != 1 || ranks[0].UserID != worst {
			t.Fatalf("expected the single lowest-scored respondent, got %+v", ranks)
		}
		if ranks[0].ApproxVisits != 1 {
			t.Errorf("approx visits for 2 answers: got %d, want 1", ranks[0].ApproxVisits)
		}
		if !pipelineContains(store.pipelines[0], "roleRef.name") {
			t.Error("ranking pipeline should restrict by role name")
		}
	})

	t.Run("empty role name rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(&mockStore{}, &mockUnitCatalog{})
		if _, err := svc.RankRespondentsByRole("", 5, SortAsc, nil); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestRankUnits(t *testing.T) {
	t.Parallel()

	unitID := primitive.NewObjectID()
	store := &mockStore{
		unitRanks: []UnitRankRow{
			{UnitID: unitID, UnitName: "FRONT DESK", Average: 3.5, Count: 17},
		},
	}
	svc := newTestService(store, &mockUnitCatalog{})

	rng := DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, testLoc),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, testLoc),
	}
	ranks, err := svc.RankUnits(3, SortDesc, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 1 {
		t.Fatalf("expected 1 rank row, got %d", len(ranks))
	}
	if ranks[0].ApproxVisits != 3 {
		t.Errorf("approx visits for 17 answers: got %d, want 3", ranks[0].ApproxVisits)
	}
}

func TestStoreFailureIsWrapped(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	store := &mockStore{err: storeErr}
	svc := newTestService(store, &mockUnitCatalog{})

	_, err := svc.CalculateGlobalAverage(false)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, ErrNoData) {
		t.Error("a store failure must never masquerade as no-data")
	}
}
