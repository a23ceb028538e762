package domain

import "fmt"

// Difficulty is an ordered question tier. The order matters: adaptive
// transitions move one step along it and saturate at both ends.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Legendary
)

var difficultyNames = [...]string{"easy", "medium", "hard", "legendary"}

func (d Difficulty) String() string {
	if d < Easy || d > Legendary {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty maps a stored tier name back to its Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if name == s {
			return Difficulty(i), nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Promote moves one tier up, saturating at legendary.
func (d Difficulty) Promote() Difficulty {
	if d >= Legendary {
		return Legendary
	}
	return d + 1
}

// Demote moves one tier down, saturating at easy.
func (d Difficulty) Demote() Difficulty {
	if d <= Easy {
		return Easy
	}
	return d - 1
}

// Neighbors returns the tier plus its adjacent tiers, nearest first.
// Candidate queries widen to these so a learner never sees an empty set
// just because their exact tier ran dry.
func (d Difficulty) Neighbors() []Difficulty {
	out := []Difficulty{d}
	if d > Easy {
		out = append(out, d-1)
	}
	if d < Legendary {
		out = append(out, d+1)
	}
	return out
}
