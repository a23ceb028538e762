package adaptive

import (
	"context"
	"log"
	"math/rand"

	"tekno-rank-service/internal/domain"
	"tekno-rank-service/internal/query"
)

// historyExcludeLimit caps how many recently answered questions are
// excluded when the caller does not supply its own exclusion set.
const historyExcludeLimit = 20

// candidatePageSize bounds the candidate fetch; the selector only needs a
// pool, not the full bank.
const candidatePageSize = 20

// PerformanceStore reads a learner's mastery data. Implementations live in
// infra; nil methods' results degrade gracefully to "no signal".
type PerformanceStore interface {
	TopicSuccessRate(ctx context.Context, studentID, topicID string) (*float64, error)
	RecentAnswerIDs(ctx context.Context, studentID, topicID string, limit int) ([]string, error)
}

// Service implements adaptive question selection over the query router.
type Service struct {
	router *query.Router
	perf   PerformanceStore
	pick   func(n int) int
}

// NewService builds the service. perf may be nil when no performance store
// is configured; selection then runs on the caller-supplied signal alone.
func NewService(router *query.Router, perf PerformanceStore) *Service {
	return &Service{router: router, perf: perf, pick: rand.Intn}
}

// NewServiceWithPick is test-only for deterministic selection.
func NewServiceWithPick(router *query.Router, perf PerformanceStore, pick func(n int) int) *Service {
	return &Service{router: router, perf: perf, pick: pick}
}

// Request scopes one adaptive-question selection.
type Request struct {
	StudentID   string
	TopicID     string
	SubjectCode string
	Grade       int
	Signal      domain.PerformanceSignal
}

// SelectQuestion resolves the learner's next tier, fetches a candidate
// pool from whichever backend is healthy, and picks one question.
func (s *Service) SelectQuestion(ctx context.Context, req Request) (domain.AdaptivePick, error) {
	signal := s.enrichSignal(ctx, req)
	resolved := NextDifficulty(signal)

	res, err := s.router.Execute(ctx, candidateQuery(req, resolved))
	if err != nil {
		return domain.AdaptivePick{}, err
	}

	candidates := make([]domain.CandidateItem, 0, len(res.Hits))
	for _, hit := range res.Hits {
		item, ok := CandidateFromHit(hit)
		if !ok {
			log.Printf("warn: dropping question %q with unknown difficulty %q", hit.Str("id"), hit.Str("difficulty"))
			continue
		}
		candidates = append(candidates, item)
	}

	item, err := selectCandidate(candidates, resolved, signal.ExcludedItemIDs, s.pick)
	if err != nil {
		return domain.AdaptivePick{}, err
	}

	return domain.AdaptivePick{
		Item:               item,
		ResolvedDifficulty: resolved,
		Source:             res.Source,
		TotalCandidates:    len(candidates),
	}, nil
}

// enrichSignal fills in topic success rate and answer-history exclusions
// from the performance store. Store failures degrade to the bare signal;
// they never fail the request.
func (s *Service) enrichSignal(ctx context.Context, req Request) domain.PerformanceSignal {
	signal := req.Signal
	if s.perf == nil || req.StudentID == "" || req.TopicID == "" {
		return signal
	}

	if signal.TopicSuccessRate == nil {
		rate, err := s.perf.TopicSuccessRate(ctx, req.StudentID, req.TopicID)
		if err != nil {
			log.Printf("warn: topic stats unavailable for student %s: %v", req.StudentID, err)
		} else {
			signal.TopicSuccessRate = rate
		}
	}

	if len(signal.ExcludedItemIDs) == 0 {
		ids, err := s.perf.RecentAnswerIDs(ctx, req.StudentID, req.TopicID, historyExcludeLimit)
		if err != nil {
			log.Printf("warn: answer history unavailable for student %s: %v", req.StudentID, err)
		} else if len(ids) > 0 {
			signal.ExcludedItemIDs = make(map[string]struct{}, len(ids))
			for _, id := range ids {
				signal.ExcludedItemIDs[id] = struct{}{}
			}
		}
	}
	return signal
}

// candidateQuery expresses the candidate fetch once as predicates; each
// backend compiles them to its own dialect. The tier filter widens to
// adjacent tiers so the pool rarely comes back empty; the selector
// restores the exact-tier preference.
func candidateQuery(req Request, resolved domain.Difficulty) query.Query {
	var preds []query.Predicate
	if req.TopicID != "" {
		preds = append(preds, query.Eq("topic_id", req.TopicID))
	} else if req.SubjectCode != "" {
		preds = append(preds, query.Eq("subject_code", req.SubjectCode))
	}
	if req.Grade > 0 {
		preds = append(preds, query.Eq("grade", req.Grade))
	}

	neighbors := resolved.Neighbors()
	names := make([]string, len(neighbors))
	for i, d := range neighbors {
		names[i] = d.String()
	}
	preds = append(preds, query.In("difficulty", names))

	return query.Query{
		Collection: "questions",
		Predicates: preds,
		Sort:       []query.Sort{{Field: "times_answered"}},
		PerPage:    candidatePageSize,
	}
}

// CandidateFromHit maps a normalized hit to a candidate question. Hits
// with an unparseable tier are rejected here, at the boundary, so the
// selector and state machine stay total.
func CandidateFromHit(hit query.Hit) (domain.CandidateItem, bool) {
	difficulty, err := domain.ParseDifficulty(hit.Str("difficulty"))
	if err != nil {
		return domain.CandidateItem{}, false
	}
	return domain.CandidateItem{
		ID:            hit.Str("id"),
		Text:          hit.Str("question_text"),
		Difficulty:    difficulty,
		SubjectCode:   hit.Str("subject_code"),
		SubjectName:   hit.Str("subject_name"),
		TopicID:       hit.Str("topic_id"),
		MainTopic:     hit.Str("main_topic"),
		TimesAnswered: hit.Int("times_answered"),
		SuccessRate:   hit.Float("success_rate"),
	}, true
}
