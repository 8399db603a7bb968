package exams

import "strings"

// keywordGroup is one classification rule. Groups form a priority list;
// the first group with a matching keyword wins.
type keywordGroup struct {
	category string
	keywords []string
}

var classificationRules = []keywordGroup{
	{CategoryBlood, []string{"blood", "sangue", "hemograma"}},
	{CategoryCardiac, []string{"cardiac", "cardio", "ecg", "eletro"}},
}

// Classify maps a free-text exam type to an analysis category by
// case-insensitive substring containment. Unmatched types are general.
func Classify(examType string) string {
	t := strings.ToLower(examType)
	for _, group := range classificationRules {
		for _, kw := range group.keywords {
			if strings.Contains(t, kw) {
				return group.category
			}
		}
	}
	return CategoryGeneral
}
