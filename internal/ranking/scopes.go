// Package ranking computes scoped leaderboards, around-me windows, and
// Bayesian contest scores.
package ranking

import (
	"fmt"

	"tekno-rank-service/internal/domain"
	"tekno-rank-service/internal/query"
)

// Scope is a hierarchical leaderboard grouping level, broadest first.
type Scope string

const (
	ScopeTurkey    Scope = "turkey"
	ScopeCity      Scope = "city"
	ScopeDistrict  Scope = "district"
	ScopeSchool    Scope = "school"
	ScopeClassroom Scope = "classroom"
)

// scopeFields maps each narrowing scope to its identifying filter field.
// Turkey is absent: the national board filters on nothing.
var scopeFields = map[Scope]string{
	ScopeCity:      "city_id",
	ScopeDistrict:  "district_id",
	ScopeSchool:    "school_id",
	ScopeClassroom: "classroom_id",
}

// subjectPointsFields resolves a subject slug to its aggregate points
// column, shared by the index documents and the relational rows.
var subjectPointsFields = map[string]string{
	"matematik":         "matematik_points",
	"turkce":            "turkce_points",
	"fen_bilimleri":     "fen_points",
	"inkilap_tarihi":    "inkilap_points",
	"din_kulturu":       "din_points",
	"ingilizce":         "ingilizce_points",
	"sosyal_bilgiler":   "sosyal_points",
	"hayat_bilgisi":     "hayat_points",
	"edebiyat":          "edebiyat_points",
	"fizik":             "fizik_points",
	"kimya":             "kimya_points",
	"biyoloji":          "biyoloji_points",
	"tarih":             "tarih_points",
	"cografya":          "cografya_points",
	"felsefe":           "felsefe_points",
	"gorsel_sanatlar":   "gorsel_points",
	"muzik":             "muzik_points",
	"beden_egitimi":     "beden_points",
	"bilisim":           "bilisim_points",
	"teknoloji_tasarim": "teknoloji_points",
}

const totalPointsField = "total_points"

// Params scopes one leaderboard request.
type Params struct {
	Scope    Scope
	ScopeKey string
	Grade    int
	Subject  string
	Limit    int
}

// validate rejects a narrowing scope without its key before any backend
// call; silently broadening scope would leak a wider board to the caller.
func (p Params) validate() error {
	switch p.Scope {
	case ScopeTurkey:
		return nil
	case ScopeCity, ScopeDistrict, ScopeSchool, ScopeClassroom:
		if p.ScopeKey == "" {
			return fmt.Errorf("%w: %s scope requires a key", domain.ErrInvalidScopeKey, p.Scope)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidScopeKey, p.Scope)
	}
}

// predicates expresses the scope and grade filters once; backends compile
// them to their own dialects.
func (p Params) predicates() []query.Predicate {
	var preds []query.Predicate
	if field, ok := scopeFields[p.Scope]; ok {
		preds = append(preds, query.Eq(field, p.ScopeKey))
	}
	if p.Grade > 0 {
		preds = append(preds, query.Eq("grade", p.Grade))
	}
	return preds
}

// sortField resolves the board's sort key: a subject points column when a
// real subject is requested, the overall total otherwise. Unknown subjects
// fall back to the total, matching long-standing behavior.
func (p Params) sortField() string {
	if p.Subject == "" || p.Subject == "general" || p.Subject == "genel" {
		return totalPointsField
	}
	if field, ok := subjectPointsFields[p.Subject]; ok {
		return field
	}
	return totalPointsField
}

func (p Params) cacheKey() string {
	return fmt.Sprintf("leaderboard:%s:%s:%d:%s:%d", p.Scope, p.ScopeKey, p.Grade, p.Subject, p.Limit)
}
