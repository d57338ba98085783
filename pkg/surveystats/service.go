package surveystats

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service is the aggregation engine. All operations are read-only and
// deterministic for an unchanged store; the engine is privilege-agnostic
// and expects already-authorized parameters.
type Service struct {
	store Store
	units UnitCatalog
	loc   *time.Location
	now   func() time.Time
}

func NewService(store Store, units UnitCatalog, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store: store,
		units: units,
		loc:   loc,
		now:   time.Now,
	}
}

func (s *Service) tz() string {
	return s.loc.String()
}

func (s *Service) resolveUnit(unitID string) (primitive.ObjectID, string, error) {
	_, err := primitive.ObjectIDFromHex(unitID)
	if err != nil {
		return primitive.NilObjectID, "", fmt.Errorf("%w: invalid unit reference %q", ErrInvalidArgument, unitID)
	}

	unit, err := s.units.GetUnitByID(unitID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, "", fmt.Errorf("%w: unit %s", ErrNotFound, unitID)
		}
		return primitive.NilObjectID, "", fmt.Errorf("looking up unit: %w", err)
	}
	return unit.ID, unit.Name, nil
}

// CalculateSelfAverage computes a respondent's overall score: the
// unweighted mean over their per-submission means. A respondent with
// zero submissions is ErrNoData, not a zero score. No zero-value filter
// on this path (question-type filter only).
func (s *Service) CalculateSelfAverage(userID string) (CalculateAverage, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return CalculateAverage{}, fmt.Errorf("%w: invalid user reference %q", ErrInvalidArgument, userID)
	}

	pipeline := Compose(
		MatchUser(uid),
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
		GroupBySurvey(),
	)

	rows, err := s.store.SurveyMeans(pipeline)
	if err != nil {
		return CalculateAverage{}, fmt.Errorf("running self average pipeline: %w", err)
	}

	average, ok := MeanOfSurveyMeans(rows)
	if !ok {
		return CalculateAverage{}, ErrNoData
	}
	return CalculateAverage{
		TotalSurveys: len(rows),
		Average:      average,
	}, nil
}

// CalculateUnitAverage returns today's per-question means for the unit
// (all == false) or the all-time count-weighted scalar (all == true).
// This path excludes the value-0 sentinel from averaging; the global
// variant does not. The difference is intentional and kept per
// operation. A unit with zero submissions yields an empty PerQuestion
// slice, not an error.
func (s *Service) CalculateUnitAverage(unitID string, all bool) (UnitGlobalAverage, error) {
	unitOID, unitName, err := s.resolveUnit(unitID)
	if err != nil {
		return UnitGlobalAverage{}, err
	}

	parts := []mongo.Pipeline{}
	if !all {
		parts = append(parts, MatchCreatedAtDayOfMonth(TodayDayOfMonth(s.now(), s.loc), s.tz()))
	}
	parts = append(parts,
		JoinRespondent(),
		MatchRespondentUnit(unitOID),
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
		MatchNonZeroAnswer(),
		GroupByQuestion(),
		SortByOrder(),
	)

	rows, err := s.store.QuestionStats(Compose(parts...))
	if err != nil {
		return UnitGlobalAverage{}, fmt.Errorf("running unit average pipeline: %w", err)
	}

	result := UnitGlobalAverage{UnitName: unitName}
	if all {
		mean, total, ok := WeightedMean(questionGroupStats(rows))
		if ok {
			result.Average = &mean
			result.TotalAnswers = total
		}
		return result, nil
	}

	if rows == nil {
		rows = []QuestionAverage{}
	}
	result.PerQuestion = rows
	return result, nil
}

// CalculateGlobalAverage is the unit-less variant. Unlike the unit path
// it filters only by question type: value-0 rows stay in.
func (s *Service) CalculateGlobalAverage(all bool) (UnitGlobalAverage, error) {
	parts := []mongo.Pipeline{}
	if !all {
		parts = append(parts, MatchCreatedAtDayOfMonth(TodayDayOfMonth(s.now(), s.loc), s.tz()))
	}
	parts = append(parts,
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
		GroupByQuestion(),
		SortByOrder(),
	)

	rows, err := s.store.QuestionStats(Compose(parts...))
	if err != nil {
		return UnitGlobalAverage{}, fmt.Errorf("running global average pipeline: %w", err)
	}

	result := UnitGlobalAverage{}
	if all {
		mean, total, ok := WeightedMean(questionGroupStats(rows))
		if ok {
			result.Average = &mean
			result.TotalAnswers = total
		}
		return result, nil
	}

	if rows == nil {
		rows = []QuestionAverage{}
	}
	result.PerQuestion = rows
	return result, nil
}

// CalculateUnitSeries returns per-question means for the unit over the
// given range, or per-day weighted scalars when accumulative is set.
// Without a range the today day-equality path is used; with a range the
// business-day window applies. Zero-value rows are excluded, matching
// the unit average path.
func (s *Service) CalculateUnitSeries(unitID string, rng *DateRange, accumulative bool) (SeriesResult, error) {
	unitOID, unitName, err := s.resolveUnit(unitID)
	if err != nil {
		return SeriesResult{}, err
	}

	parts := []mongo.Pipeline{s.selectByRangeOrToday(rng)}
	parts = append(parts,
		JoinRespondent(),
		MatchRespondentUnit(unitOID),
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
		MatchNonZeroAnswer(),
	)

	result := SeriesResult{UnitName: unitName}
	if accumulative {
		parts = append(parts, GroupByQuestionAndDay(s.tz()))
		rows, err := s.store.DayStats(Compose(parts...))
		if err != nil {
			return SeriesResult{}, fmt.Errorf("running unit series pipeline: %w", err)
		}
		result.PerDay = AccumulateByDay(rows)
		return result, nil
	}

	parts = append(parts, GroupByQuestion(), SortByOrder())
	rows, err := s.store.QuestionStats(Compose(parts...))
	if err != nil {
		return SeriesResult{}, fmt.Errorf("running unit series pipeline: %w", err)
	}
	if rows == nil {
		rows = []QuestionAverage{}
	}
	result.PerQuestion = rows
	return result, nil
}

// CalculateGlobalSeries is the unit-less series; no zero-value filter.
func (s *Service) CalculateGlobalSeries(rng *DateRange, accumulative bool) (SeriesResult, error) {
	parts := []mongo.Pipeline{s.selectByRangeOrToday(rng)}
	parts = append(parts,
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
	)

	result := SeriesResult{}
	if accumulative {
		parts = append(parts, GroupByQuestionAndDay(s.tz()))
		rows, err := s.store.DayStats(Compose(parts...))
		if err != nil {
			return SeriesResult{}, fmt.Errorf("running global series pipeline: %w", err)
		}
		result.PerDay = AccumulateByDay(rows)
		return result, nil
	}

	parts = append(parts, GroupByQuestion(), SortByOrder())
	rows, err := s.store.QuestionStats(Compose(parts...))
	if err != nil {
		return SeriesResult{}, fmt.Errorf("running global series pipeline: %w", err)
	}
	if rows == nil {
		rows = []QuestionAverage{}
	}
	result.PerQuestion = rows
	return result, nil
}

// CountEssays counts submissions containing at least one free-text
// answer, scoped to a unit, a respondent, or globally. All three counts
// are always returned; zero is a valid result, never an error.
func (s *Service) CountEssays(scope EssayScope) (EssayCounts, error) {
	scopeParts := []mongo.Pipeline{}
	switch {
	case scope.UserID != "":
		uid, err := primitive.ObjectIDFromHex(scope.UserID)
		if err != nil {
			return EssayCounts{}, fmt.Errorf("%w: invalid user reference %q", ErrInvalidArgument, scope.UserID)
		}
		scopeParts = append(scopeParts, MatchUser(uid))
	case scope.UnitID != "":
		unitOID, _, err := s.resolveUnit(scope.UnitID)
		if err != nil {
			return EssayCounts{}, err
		}
		scopeParts = append(scopeParts, JoinRespondent(), MatchRespondentUnit(unitOID))
	}

	essayParts := []mongo.Pipeline{
		UnwindBody(),
		MatchEssayText(),
		JoinQuestion(),
		MatchQuestionType(questionTypeEssay),
		GroupToCount(),
	}

	countWith := func(dateParts ...mongo.Pipeline) (int64, error) {
		parts := append([]mongo.Pipeline{}, dateParts...)
		parts = append(parts, scopeParts...)
		parts = append(parts, essayParts...)
		return s.store.Count(Compose(parts...))
	}

	now := s.now()
	counts := EssayCounts{}
	var err error

	if counts.Total, err = countWith(); err != nil {
		return EssayCounts{}, fmt.Errorf("counting essays: %w", err)
	}
	if counts.TodayTotal, err = countWith(MatchCreatedAtDayOfMonth(TodayDayOfMonth(now, s.loc), s.tz())); err != nil {
		return EssayCounts{}, fmt.Errorf("counting today's essays: %w", err)
	}
	if counts.YesterdayTotal, err = countWith(MatchCreatedAtDayOfMonth(YesterdayDayOfMonth(now, s.loc), s.tz())); err != nil {
		return EssayCounts{}, fmt.Errorf("counting yesterday's essays: %w", err)
	}
	return counts, nil
}

// RankRespondentsByRole ranks respondents holding the given role by
// their mean rating. Ascending order is the default: the lowest score
// surfaces first. The derived visit count is approximate.
func (s *Service) RankRespondentsByRole(roleName string, limit int64, direction SortDirection, rng *DateRange) ([]RespondentRank, error) {
	if roleName == "" {
		return nil, fmt.Errorf("%w: role name must not be empty", ErrInvalidArgument)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidArgument)
	}

	parts := []mongo.Pipeline{}
	if rng != nil {
		start, end := BusinessDayWindow(*rng, s.loc)
		parts = append(parts, MatchCreatedAtWindow(start, end))
	}
	parts = append(parts,
		JoinRespondent(),
		JoinRespondentRole(),
		MatchRoleName(roleName),
		JoinRespondentUnit(),
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
		GroupByRespondent(),
		SortByAverage(direction),
		Limit(limit),
	)

	rows, err := s.store.RespondentRankRows(Compose(parts...))
	if err != nil {
		return nil, fmt.Errorf("running respondent ranking pipeline: %w", err)
	}

	ranks := make([]RespondentRank, 0, len(rows))
	for _, r := range rows {
		ranks = append(ranks, RespondentRank{
			UserID:       r.UserID,
			Fullname:     r.Fullname,
			UnitName:     r.UnitName,
			Average:      r.Average,
			ApproxVisits: ApproxVisits(r.Count),
		})
	}
	return ranks, nil
}

// RankUnits ranks units by their mean rating over the given range.
func (s *Service) RankUnits(limit int64, direction SortDirection, rng DateRange) ([]UnitRank, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidArgument)
	}

	start, end := BusinessDayWindow(rng, s.loc)
	pipeline := Compose(
		MatchCreatedAtWindow(start, end),
		JoinRespondent(),
		JoinRespondentUnit(),
		UnwindBody(),
		JoinQuestion(),
		JoinAnswer(),
		MatchQuestionType(questionTypeKuesioner),
		GroupByUnit(),
		SortByAverage(direction),
		Limit(limit),
	)

	rows, err := s.store.UnitRankRows(pipeline)
	if err != nil {
		return nil, fmt.Errorf("running unit ranking pipeline: %w", err)
	}

	ranks := make([]UnitRank, 0, len(rows))
	for _, r := range rows {
		ranks = append(ranks, UnitRank{
			UnitID:       r.UnitID,
			UnitName:     r.UnitName,
			Average:      r.Average,
			ApproxVisits: ApproxVisits(r.Count),
		})
	}
	return ranks, nil
}

func (s *Service) selectByRangeOrToday(rng *DateRange) mongo.Pipeline {
	if rng != nil {
		start, end := BusinessDayWindow(*rng, s.loc)
		return MatchCreatedAtWindow(start, end)
	}
	return MatchCreatedAtDayOfMonth(TodayDayOfMonth(s.now(), s.loc), s.tz())
}
