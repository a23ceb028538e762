package domain

// PerformanceSignal carries a learner's recent answer stream and topic
// mastery numbers for one adaptive-question request. It is built fresh per
// request and never persisted here.
type PerformanceSignal struct {
	ConsecutiveCorrect int
	ConsecutiveWrong   int
	CurrentDifficulty  Difficulty
	// TopicSuccessRate is a percentage in [0,100]; nil when the learner has
	// no recorded attempts for the topic.
	TopicSuccessRate *float64
	ExcludedItemIDs  map[string]struct{}
}

// CandidateItem is a question normalized from either backend's result shape.
type CandidateItem struct {
	ID            string     `json:"id"`
	Text          string     `json:"questionText"`
	Difficulty    Difficulty `json:"difficulty"`
	SubjectCode   string     `json:"subjectCode"`
	SubjectName   string     `json:"subjectName"`
	TopicID       string     `json:"topicId"`
	MainTopic     string     `json:"mainTopic"`
	TimesAnswered int        `json:"timesAnswered"`
	SuccessRate   float64    `json:"successRate"`
}

// AdaptivePick is the result of one adaptive-question selection.
type AdaptivePick struct {
	Item               CandidateItem `json:"question"`
	ResolvedDifficulty Difficulty    `json:"resolvedDifficulty"`
	Source             string        `json:"source"`
	TotalCandidates    int           `json:"totalCandidates"`
}

// RankEntry is one row of a scoped leaderboard. Rank is assigned by the
// engine per request; it depends on scope and sort key and is never stored.
type RankEntry struct {
	EntityID      string         `json:"studentId"`
	DisplayName   string         `json:"fullName"`
	AvatarURL     string         `json:"avatarUrl,omitempty"`
	Score         float64        `json:"score"`
	SecondaryStat map[string]int `json:"stats,omitempty"`
	Grade         int            `json:"grade,omitempty"`
	CityName      string         `json:"cityName,omitempty"`
	DistrictName  string         `json:"districtName,omitempty"`
	SchoolName    string         `json:"schoolName,omitempty"`
	Rank          int            `json:"rank"`
	IsMe          bool           `json:"isMe,omitempty"`
}

// BayesianSubject is one contest entry: a raw average over however many
// evaluations happened to come in.
type BayesianSubject struct {
	SubjectID   string  `json:"subjectId"`
	RawAverage  float64 `json:"rawAverage"`
	SampleCount int     `json:"sampleCount"`
}

// ScoredSubject pairs a contest entry with its shrinkage-adjusted score.
type ScoredSubject struct {
	BayesianSubject
	BayesianScore float64 `json:"bayesianScore"`
}

// TopicInsight summarizes a learner's standing on one topic.
type TopicInsight struct {
	TopicID     string  `json:"topicId"`
	MainTopic   string  `json:"mainTopic"`
	SubjectName string  `json:"subjectName"`
	SuccessRate int     `json:"successRate"`
	Mastery     float64 `json:"masteryLevel"`
}
