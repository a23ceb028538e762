package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tekno-rank-service/internal/domain"
)

// PerfStore reads learner performance data from Postgres. It is a narrow,
// read-only collaborator: answers stream in from elsewhere concurrently and
// nothing here writes.
type PerfStore struct {
	pool *pgxpool.Pool
}

func NewPerfStore(pool *pgxpool.Pool) *PerfStore {
	return &PerfStore{pool: pool}
}

// TopicSuccessRate returns the learner's success percentage for a topic, or
// nil when no attempts are recorded.
func (s *PerfStore) TopicSuccessRate(ctx context.Context, studentID, topicID string) (*float64, error) {
	var attempted, correct int
	err := s.pool.QueryRow(ctx,
		`SELECT total_attempted, total_correct FROM student_topic_stats WHERE student_id=$1 AND topic_id=$2`,
		studentID, topicID,
	).Scan(&attempted, &correct)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load topic stats: %w", err)
	}
	if attempted == 0 {
		return nil, nil
	}
	rate := float64(correct) / float64(attempted) * 100
	return &rate, nil
}

// RecentAnswerIDs returns the learner's most recently answered question IDs
// for a topic, newest first, for exclusion from the candidate pool.
func (s *PerfStore) RecentAnswerIDs(ctx context.Context, studentID, topicID string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT question_id FROM student_answers WHERE student_id=$1 AND topic_id=$2 ORDER BY answered_at DESC LIMIT $3`,
		studentID, topicID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load answer history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan answer history: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TopicInsights splits a learner's topics into weak (success < 50%) and
// strong (success >= 70%), counting only topics with at least minAttempts
// recorded answers.
func (s *PerfStore) TopicInsights(ctx context.Context, studentID string, minAttempts int) (weak, strong []domain.TopicInsight, err error) {
	rows, err := s.pool.Query(ctx,
		`SELECT topic_id, main_topic, subject_name, total_attempted, total_correct, mastery_level
		 FROM student_topic_stats WHERE student_id=$1 AND total_attempted >= $2`,
		studentID, minAttempts,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("load topic insights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			insight   domain.TopicInsight
			attempted int
			correct   int
		)
		if err := rows.Scan(&insight.TopicID, &insight.MainTopic, &insight.SubjectName, &attempted, &correct, &insight.Mastery); err != nil {
			return nil, nil, fmt.Errorf("scan topic insights: %w", err)
		}
		rate := float64(correct) / float64(attempted)
		insight.SuccessRate = int(rate*100 + 0.5)
		switch {
		case rate < 0.5:
			weak = append(weak, insight)
		case rate >= 0.7:
			strong = append(strong, insight)
		}
	}
	return weak, strong, rows.Err()
}
