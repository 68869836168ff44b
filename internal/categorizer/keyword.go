package categorizer

import (
	"context"
	"sort"
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/models"
	"github.com/ivanvallejoss/smartexpense/internal/textutils"
)

type keywordEntry struct {
	keyword  string
	category models.Category
}

// keywordIndex maps normalized keywords to the first category claiming them.
type keywordIndex struct {
	entries []keywordEntry
	exact   map[string]int
}

// buildKeywordIndex orders the user's own categories by name ahead of global
// ones, so user keywords shadow global keywords. A user category without
// keywords borrows the default table's keywords for its name.
func buildKeywordIndex(cats []models.Category, userID int64, defaults models.DefaultCategoryTable) *keywordIndex {
	var own, global []models.Category
	for _, c := range cats {
		if c.OwnedBy(userID) {
			own = append(own, c)
		} else {
			global = append(global, c)
		}
	}
	byName := func(list []models.Category) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	byName(own)
	byName(global)

	idx := &keywordIndex{exact: make(map[string]int)}
	add := func(c models.Category, keywords []string) {
		for _, kw := range keywords {
			k := textutils.Normalize(kw)
			if k == "" {
				continue
			}
			if _, claimed := idx.exact[k]; claimed {
				continue
			}
			idx.exact[k] = len(idx.entries)
			idx.entries = append(idx.entries, keywordEntry{keyword: k, category: c})
		}
	}

	for _, c := range own {
		keywords := c.Keywords
		if len(keywords) == 0 {
			if dc, ok := defaults.Lookup(c.Name); ok {
				keywords = dc.Keywords
			}
		}
		add(c, keywords)
	}
	for _, c := range global {
		add(c, c.Keywords)
	}
	return idx
}

// KeywordStrategy matches significant words against category keywords.
type KeywordStrategy struct {
	engine *Engine
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "keywords"
}

// Suggest tries an exact word/keyword match first, then a substring match in
// either direction.
func (s *KeywordStrategy) Suggest(ctx context.Context, q Query) (models.CategorySuggestion, bool, error) {
	idx, err := s.engine.keywordIndex(ctx)
	if err != nil {
		return models.NoMatch(), false, err
	}

	for _, word := range q.Words {
		if i, ok := idx.exact[word]; ok {
			category := idx.entries[i].category
			return models.CategorySuggestion{
				Category:       &category,
				Confidence:     ConfidenceKeywordExact,
				Reason:         models.ReasonKeywordMatch,
				MatchedKeyword: word,
			}, true, nil
		}
	}

	for _, entry := range idx.entries {
		for _, word := range q.Words {
			if strings.Contains(word, entry.keyword) || strings.Contains(entry.keyword, word) {
				category := entry.category
				return models.CategorySuggestion{
					Category:       &category,
					Confidence:     ConfidenceKeywordPartial,
					Reason:         models.ReasonPartialMatch,
					MatchedKeyword: entry.keyword,
				}, true, nil
			}
		}
	}

	return models.NoMatch(), false, nil
}

// keywordIndex returns the cached index, building it on first use. Failed
// lookups are not cached.
func (e *Engine) keywordIndex(ctx context.Context) (*keywordIndex, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.keywordIdx != nil {
		return e.keywordIdx, nil
	}
	cats, err := e.categoriesLocked(ctx)
	if err != nil {
		return nil, err
	}
	e.keywordIdx = buildKeywordIndex(cats, e.userID, e.defaults)
	return e.keywordIdx, nil
}
