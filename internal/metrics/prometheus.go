// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the chore service.
var (
	// Counters.
	ChoresCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chores_created_total",
			Help: "Total number of chores created",
		},
		[]string{"household", "category"},
	)

	ChoresCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chores_completed_total",
			Help: "Total number of chores completed",
		},
		[]string{"household", "difficulty", "timing"}, // timing: early, late, undated
	)

	PointsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Total points awarded for completed chores",
		},
		[]string{"household"},
	)

	ChoresResetTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chores_reset_total",
			Help: "Total number of daily chores returned to incomplete by the midnight reset",
		},
		[]string{"household"},
	)

	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Total number of point redemptions processed",
		},
		[]string{"household", "status"},
	)

	PointsRedeemedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_redeemed_total",
			Help: "Total points deducted by approved redemptions",
		},
		[]string{"household"},
	)

	LevelPersistenceClearedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "level_persistence_cleared_total",
			Help: "Total level persistence entries cleared",
		},
		[]string{"reason"}, // outgrown, manual
	)

	// Gauges.
	MemberEarnedPoints = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "member_earned_points",
			Help: "Earned points per member after deductions",
		},
		[]string{"household", "user"},
	)

	MemberLevel = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "member_level",
			Help: "Displayed level per member",
		},
		[]string{"household", "user"},
	)

	// Summary.
	MemberEfficiencyScore = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "member_efficiency_score",
			Help:       "Efficiency score observed each time stats are computed",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"household"},
	)

	// Histograms.
	StatsComputeDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stats_compute_duration_seconds",
			Help:    "Time taken to load inputs and compute household stats",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"household"},
	)

	// Scheduler metrics.
	SchedulerJobsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_jobs_run_total",
			Help: "Total scheduler job executions",
		},
		[]string{"job", "status"},
	)

	SchedulerNotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_notifications_sent_total",
			Help: "Total successful digest notifications sent",
		},
		[]string{"household"},
	)

	SchedulerNotificationsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_notifications_failed_total",
			Help: "Total failed notification attempts",
		},
		[]string{"reason"},
	)

	SchedulerLastRunTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scheduler_last_run_timestamp",
			Help: "Unix timestamp of last scheduler run",
		},
		[]string{"job"},
	)

	SchedulerJobDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Time taken to execute a scheduler job",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"job"},
	)
)

// RecordChoreCreated records a new chore.
func RecordChoreCreated(household, category string) {
	ChoresCreatedTotal.WithLabelValues(household, category).Inc()
}

// RecordChoreCompleted records a completion and the points it earned.
func RecordChoreCompleted(household, difficulty, timing string, points int) {
	ChoresCompletedTotal.WithLabelValues(household, difficulty, timing).Inc()
	if points > 0 {
		PointsAwardedTotal.WithLabelValues(household).Add(float64(points))
	}
}

// RecordChoresReset records how many chores a reset returned to incomplete.
func RecordChoresReset(household string, count int) {
	ChoresResetTotal.WithLabelValues(household).Add(float64(count))
}

// RecordRedemption records a redemption attempt.
func RecordRedemption(household, status string, points int) {
	RedemptionsTotal.WithLabelValues(household, status).Inc()
	if status == "approved" && points > 0 {
		PointsRedeemedTotal.WithLabelValues(household).Add(float64(points))
	}
}

// RecordLevelPersistenceCleared records a cleared persistence entry.
func RecordLevelPersistenceCleared(reason string) {
	LevelPersistenceClearedTotal.WithLabelValues(reason).Inc()
}

// SetMemberStats publishes a member's current points and level.
func SetMemberStats(household, user string, earnedPoints, level int) {
	MemberEarnedPoints.WithLabelValues(household, user).Set(float64(earnedPoints))
	MemberLevel.WithLabelValues(household, user).Set(float64(level))
}

// ObserveEfficiencyScore observes a member's efficiency score.
func ObserveEfficiencyScore(household string, score float64) {
	MemberEfficiencyScore.WithLabelValues(household).Observe(score)
}

// ObserveStatsComputeDuration observes how long a stats computation took.
func ObserveStatsComputeDuration(household string, seconds float64) {
	StatsComputeDurationSeconds.WithLabelValues(household).Observe(seconds)
}

// RecordSchedulerJobRun records a scheduler job execution.
func RecordSchedulerJobRun(job, status string) {
	SchedulerJobsRunTotal.WithLabelValues(job, status).Inc()
}

// RecordSchedulerNotificationSent records a successful notification sent.
func RecordSchedulerNotificationSent(household string) {
	SchedulerNotificationsSentTotal.WithLabelValues(household).Inc()
}

// RecordSchedulerNotificationFailed records a failed notification attempt.
func RecordSchedulerNotificationFailed(reason string) {
	SchedulerNotificationsFailedTotal.WithLabelValues(reason).Inc()
}

// SetSchedulerLastRun sets the timestamp of the last run of a job.
func SetSchedulerLastRun(job string) {
	SchedulerLastRunTimestamp.WithLabelValues(job).SetToCurrentTime()
}

// ObserveSchedulerJobDuration observes the duration of a scheduler job.
func ObserveSchedulerJobDuration(job string, seconds float64) {
	SchedulerJobDurationSeconds.WithLabelValues(job).Observe(seconds)
}
