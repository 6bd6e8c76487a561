package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	XPAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_xp_awarded_total",
			Help: "Total XP credited to users",
		},
		[]string{"source"}, // lesson, course
	)

	SectionCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_section_completions_total",
			Help: "Lesson sections marked complete for the first time",
		},
		[]string{"section"},
	)

	QuizSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_quiz_submissions_total",
			Help: "Quiz submissions by verdict",
		},
		[]string{"result"}, // passed, failed
	)

	LessonsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learning_lessons_completed_total",
			Help: "Lessons that reached full completion",
		},
	)

	CoursesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learning_courses_completed_total",
			Help: "Enrollments that transitioned to completed",
		},
	)
)

func QuizResult(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
