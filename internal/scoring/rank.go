package scoring

import "sort"

// Rankable is anything carrying a total score and a priority level
type Rankable interface {
	RankKey() (totalScore, priorityLevel int)
}

// Rank returns a stably sorted copy of items, ordered by total score then
// priority level, both descending.
//
// Among equal scores this puts the numerically larger priority level (the less
// important tier) first. Existing exports depend on that order.
func Rank[T Rankable](items []T) []T {
	ranked := make([]T, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		scoreI, priorityI := ranked[i].RankKey()
		scoreJ, priorityJ := ranked[j].RankKey()
		if scoreI != scoreJ {
			return scoreI > scoreJ
		}
		return priorityI > priorityJ
	})
	return ranked
}
