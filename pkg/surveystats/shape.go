package surveystats

import "sort"

// WeightedMean collapses group means into one scalar weighted by group
// size: sum(avg_i * count_i) / sum(count_i). A naive mean of the averages
// would over-weight sparse groups. Returns ok == false when the total
// count is zero; callers must treat that as "no data", never as 0.
func WeightedMean(groups []GroupStat) (mean float64, totalCount int64, ok bool) {
	var weightedSum float64
	for _, g := range groups {
		weightedSum += g.Average * float64(g.Count)
		totalCount += g.Count
	}
	if totalCount == 0 {
		return 0, 0, false
	}
	return weightedSum / float64(totalCount), totalCount, true
}

// ApproxVisits derives "number of visits" from "number of answered
// questions": ceil(totalAnswered / QuestionsPerVisit). An approximation
// only; partial submissions round up.
func ApproxVisits(totalAnswered int64) int64 {
	if totalAnswered <= 0 {
		return 0
	}
	return (totalAnswered + QuestionsPerVisit - 1) / QuestionsPerVisit
}

func questionGroupStats(rows []QuestionAverage) []GroupStat {
	stats := make([]GroupStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, GroupStat{Average: r.Average, Count: r.Count})
	}
	return stats
}

// AccumulateByDay collapses per-question-per-day rows into one weighted
// scalar per date bucket, sorted by date ascending. Date buckets with no
// rows simply do not appear.
func AccumulateByDay(rows []DayStat) []DayAverage {
	byDate := map[string][]GroupStat{}
	for _, r := range rows {
		byDate[r.Date] = append(byDate[r.Date], GroupStat{Average: r.Average, Count: r.Count})
	}

	days := make([]DayAverage, 0, len(byDate))
	for date, groups := range byDate {
		mean, count, ok := WeightedMean(groups)
		if !ok {
			continue
		}
		days = append(days, DayAverage{Date: date, Average: mean, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// MeanOfSurveyMeans averages the per-submission means without weighting,
// matching the original self-average loop.
func MeanOfSurveyMeans(rows []SurveyMean) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range rows {
		sum += r.Average
	}
	return sum / float64(len(rows)), true
}
