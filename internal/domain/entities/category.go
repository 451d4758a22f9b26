package entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCategory(name string) *Category {
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// CategoryPatch carries the fields of a partial category update. Nil fields
// are left untouched.
type CategoryPatch struct {
	Name *string `json:"name"`
}

func (c *Category) Apply(patch CategoryPatch) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
}

// SortCategories orders categories by name under pt-BR collation, so
// accented names land where customers expect them. Both storage backends
// sort through this one function so their ordering is identical.
// A Collator is not safe for concurrent use, hence one per call.
func SortCategories(categories []Category) {
	collator := collate.New(language.BrazilianPortuguese)
	sort.Slice(categories, func(i, j int) bool {
		return collator.CompareString(categories[i].Name, categories[j].Name) < 0
	})
}
