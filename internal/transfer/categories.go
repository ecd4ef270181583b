package transfer

import (
	"encoding/json"
	"errors"
	"fmt"

	"timeline/internal/core"
)

// ImportCategoriesJSON parses a flat name-to-color JSON object into a category
// set. Any other top-level shape, or an empty mapping, is a schema error:
// the category collection must never be replaced by nothing.
func ImportCategoriesJSON(data []byte) (*core.CategorySet, error) {
	cats := core.NewCategorySet()
	if err := json.Unmarshal(data, cats); err != nil {
		if errors.Is(err, core.ErrSchema) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", core.ErrSchema, err)
	}
	if cats.Len() == 0 {
		return nil, fmt.Errorf("%w: no categories in document", core.ErrSchema)
	}
	return cats, nil
}
