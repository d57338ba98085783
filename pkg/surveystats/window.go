package surveystats

import "time"

// Business-day boundary used by the deployment: a survey "day" runs from
// 17:00 the previous calendar day to 17:00 on the day itself, in the
// reference timezone.
const businessDayBoundaryHour = 17

// BusinessDayWindow maps a {from, to} date range onto the half-open
// submission window [from-1d 17:00, to 17:00) in loc. Callers depend on
// this off-by-one-day boundary to align with the organization's local
// business day; do not replace it with a midnight-to-midnight window.
func BusinessDayWindow(rng DateRange, loc *time.Location) (start time.Time, end time.Time) {
	from := rng.From.In(loc)
	to := rng.To.In(loc)

	start = time.Date(from.Year(), from.Month(), from.Day()-1, businessDayBoundaryHour, 0, 0, 0, loc)
	end = time.Date(to.Year(), to.Month(), to.Day(), businessDayBoundaryHour, 0, 0, 0, loc)
	return start, end
}

// TodayDayOfMonth returns the calendar day-of-month used by the
// day-equality variants. This is a genuinely different code path from the
// range window above and both are kept.
func TodayDayOfMonth(now time.Time, loc *time.Location) int {
	return now.In(loc).Day()
}

// YesterdayDayOfMonth is literally today's day-of-month minus one, as in
// the original day-equality arithmetic. On the first of the month it
// yields 0 and matches nothing.
func YesterdayDayOfMonth(now time.Time, loc *time.Location) int {
	return now.In(loc).Day() - 1
}
