package catalog

import (
	"fmt"
	"strings"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Kind classifies a statement by the collection it belongs to.
type Kind int

const (
	KindDrop Kind = iota
	KindCreate
	KindCopy
	KindInsert
)

// Kinds lists every kind in execution order across both pipelines.
var Kinds = []Kind{KindDrop, KindCreate, KindCopy, KindInsert}

func (k Kind) String() string {
	switch k {
	case KindDrop:
		return "drop"
	case KindCreate:
		return "create"
	case KindCopy:
		return "copy"
	case KindInsert:
		return "insert"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the lowercase names printed by String.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown statement kind %q (expected drop, create, copy or insert): %w", s, dwhetl.ErrInvalidConfig)
}
