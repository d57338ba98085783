package surveystats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestWeightedMean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		groups    []GroupStat
		wantMean  float64
		wantCount int64
		wantOK    bool
	}{
		{
			name:   "empty input is no data",
			groups: []GroupStat{},
			wantOK: false,
		},
		{
			name: "zero counts are no data, not zero",
			groups: []GroupStat{
				{Average: 4.5, Count: 0},
			},
			wantOK: false,
		},
		{
			name: "equal weights reduce to the arithmetic mean",
			groups: []GroupStat{
				{Average: 5, Count: 3},
				{Average: 3, Count: 3},
				{Average: 1, Count: 3},
			},
			wantMean:  3,
			wantCount: 9,
			wantOK:    true,
		},
		{
			name: "unequal weights differ from the naive mean of averages",
			groups: []GroupStat{
				{Average: 5, Count: 9},
				{Average: 1, Count: 1},
			},
			// naive mean would be 3.0; the weighted result is 4.6
			wantMean:  4.6,
			wantCount: 10,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mean, count, ok := WeightedMean(tt.groups)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if !almostEqual(mean, tt.wantMean) {
				t.Errorf("mean: got %v, want %v", mean, tt.wantMean)
			}
			if count != tt.wantCount {
				t.Errorf("count: got %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestApproxVisits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		answered int64
		want     int64
	}{
		{0, 0},
		{1, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
	}
	for _, tt := range tests {
		if got := ApproxVisits(tt.answered); got != tt.want {
			t.Errorf("ApproxVisits(%d): got %d, want %d", tt.answered, got, tt.want)
		}
	}
}

func TestAccumulateByDay(t *testing.T) {
	t.Parallel()

	rows := []DayStat{
		{Date: "2024-01-16", Average: 4, Count: 2},
		{Date: "2024-01-15", Average: 5, Count: 3},
		{Date: "2024-01-15", Average: 1, Count: 1},
	}

	days := AccumulateByDay(rows)
	if len(days) != 2 {
		t.Fatalf("expected 2 date buckets, got %d", len(days))
	}
	if days[0].Date != "2024-01-15" || days[1].Date != "2024-01-16" {
		t.Errorf("expected ascending date order, got %q then %q", days[0].Date, days[1].Date)
	}
	// (5*3 + 1*1) / 4 = 4
	if !almostEqual(days[0].Average, 4) {
		t.Errorf("day 1 average: got %v, want 4", days[0].Average)
	}
	if days[0].Count != 4 {
		t.Errorf("day 1 count: got %d, want 4", days[0].Count)
	}
}

func TestMeanOfSurveyMeans(t *testing.T) {
	t.Parallel()

	if _, ok := MeanOfSurveyMeans(nil); ok {
		t.Error("expected ok == false on empty input")
	}

	rows := []SurveyMean{
		{Average: 5, Count: 8},
		{Average: 3, Count: 8},
		{Average: 1, Count: 8},
	}
	mean, ok := MeanOfSurveyMeans(rows)
	if !ok {
		t.Fatal("expected ok == true")
	}
	if !almostEqual(mean, 3) {
		t.Errorf("mean: got %v, want 3", mean)
	}
}
