package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/escuela-api/internal/models"
)

// roundOne rounds to one decimal place, halves away from zero. It works on the shortest decimal
// form of v, so a mean of 7.35 gives 7.4 even though the float is slightly below it.
func roundOne(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	whole, frac, _ := strings.Cut(strconv.FormatFloat(math.Abs(v), 'f', -1, 64), ".")
	if len(frac) <= 1 {
		return v
	}
	tenths, err := strconv.ParseInt(whole+frac[:1], 10, 64)
	if err != nil {
		return math.Round(v*10) / 10
	}
	if frac[1] >= '5' {
		tenths++
	}
	rounded := float64(tenths) / 10
	if v < 0 {
		rounded = -rounded
	}
	return rounded
}

// percent returns part/total as a percentage with one decimal; an empty total yields 0.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return roundOne(float64(part) * 100 / float64(total))
}

// average is the rounded mean of the recorded terms, nil when none is recorded.
func average(terms ...*float64) *float64 {
	var (
		sum   float64
		count int
	)
	for _, term := range terms {
		if term == nil {
			continue
		}
		sum += *term
		count++
	}
	if count == 0 {
		return nil
	}
	avg := roundOne(sum / float64(count))
	return &avg
}

// SummarizeGrades folds left-joined course rows into one summary per student, keeping the
// order in which students first appear.
func SummarizeGrades(rows []models.CourseGradeRow) []models.StudentGradeSummary {
	summaries := make([]models.StudentGradeSummary, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		pos, ok := index[row.StudentID]
		if !ok {
			pos = len(summaries)
			index[row.StudentID] = pos
			summaries = append(summaries, models.StudentGradeSummary{
				StudentID:   row.StudentID,
				StudentName: models.DisplayName(row.FirstName, row.LastName),
			})
		}
		if row.Period == nil || row.Score == nil {
			continue
		}
		score := *row.Score
		switch *row.Period {
		case models.PeriodTerm1:
			summaries[pos].Term1 = &score
		case models.PeriodTerm2:
			summaries[pos].Term2 = &score
		case models.PeriodTerm3:
			summaries[pos].Term3 = &score
		}
	}
	for i := range summaries {
		summaries[i].Average = average(summaries[i].Term1, summaries[i].Term2, summaries[i].Term3)
	}
	return summaries
}

// countsBuilder tallies statuses; unknown statuses are ignored.
type countsBuilder struct {
	models.AttendanceCounts
}

func (c *countsBuilder) add(status models.AttendanceStatus) {
	switch status {
	case models.AttendancePresent:
		c.Present++
	case models.AttendanceAbsent:
		c.Absent++
	case models.AttendanceLate:
		c.Late++
	case models.AttendanceDismissed:
		c.Dismissed++
	}
}

// attendanceRate counts late arrivals as attended.
func attendanceRate(c models.AttendanceCounts) float64 {
	return percent(c.Present+c.Late, c.Total())
}

// TallyStatuses counts statuses into a student's stats; no statuses yields all zeros.
func TallyStatuses(studentID int64, statuses []models.AttendanceStatus) models.AttendanceStats {
	var counts countsBuilder
	for _, status := range statuses {
		counts.add(status)
	}
	return models.AttendanceStats{
		StudentID:        studentID,
		AttendanceCounts: counts.AttendanceCounts,
		Total:            counts.Total(),
		AttendanceRate:   attendanceRate(counts.AttendanceCounts),
	}
}

// GroupSessions yields one summary per session in first-seen order; total is the sum of counts.
func GroupSessions(rows []models.AttendanceHistoryRow) []models.AttendanceSessionSummary {
	summaries := make([]models.AttendanceSessionSummary, 0)
	index := make(map[int64]int)
	counts := make([]countsBuilder, 0)
	for _, row := range rows {
		pos, ok := index[row.ID]
		if !ok {
			pos = len(summaries)
			index[row.ID] = pos
			summaries = append(summaries, models.AttendanceSessionSummary{AttendanceSession: row.AttendanceSession})
			counts = append(counts, countsBuilder{})
		}
		if row.Status != nil {
			counts[pos].add(*row.Status)
		}
	}
	for i := range summaries {
		summaries[i].AttendanceCounts = counts[i].AttendanceCounts
		summaries[i].Total = counts[i].Total()
	}
	return summaries
}

// BuildAttendanceReport adds overall totals to the per-session summaries.
func BuildAttendanceReport(sessions []models.AttendanceSessionSummary) models.AttendanceReport {
	var totals models.AttendanceCounts
	for _, session := range sessions {
		totals.Present += session.Present
		totals.Absent += session.Absent
		totals.Late += session.Late
		totals.Dismissed += session.Dismissed
	}
	return models.AttendanceReport{
		Sessions:       sessions,
		Totals:         totals,
		Total:          totals.Total(),
		AttendanceRate: attendanceRate(totals),
	}
}
