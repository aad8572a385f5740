// Package tree is the mutation layer over the statement structure. Every
// structural edit (add, remove, reparent, reorder) goes through here so the
// tree invariants hold at all times: unique ids, no cycles, protected
// skeleton lines intact, and cash-flow treatment inferred at authoring time.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"finmodel/pkg/core/classify"
	"finmodel/pkg/core/treatment"
	"finmodel/pkg/models"
)

var (
	// ErrLineNotFound is returned when an id does not resolve in the
	// target statement.
	ErrLineNotFound = errors.New("line not found")
	// ErrDuplicateID is returned when an add would violate model-wide id
	// uniqueness.
	ErrDuplicateID = errors.New("duplicate line id")
	// ErrProtectedLine is returned when a removal targets a skeleton line
	// the rest of the system depends on.
	ErrProtectedLine = errors.New("line is protected")
	// ErrWouldCycle is returned when a reparent would place a line inside
	// its own subtree.
	ErrWouldCycle = errors.New("reparent would create a cycle")
)

// NewLine builds a user-authored line with a stable id derived from the
// label. Labels that slug to nothing (or collide) get a uuid-suffixed id so
// the add never fails on naming.
func NewLine(m *models.Model, label string, kind models.Kind) *models.Line {
	id := Slug(label)
	if id == "" {
		id = "line"
	}
	if idExists(m, id) {
		id = id + "_" + uuid.NewString()[:8]
	}
	if kind == "" {
		kind = models.KindInput
	}
	return &models.Line{
		ID:        id,
		Label:     label,
		Kind:      kind,
		ValueType: models.TypeCurrency,
		Values:    map[string]float64{},
	}
}

// AddLine inserts a line into a statement, either as a child of parentID or
// at top-level position pos when parentID is empty (pos clamps to the valid
// range, -1 appends). Cash Flow lines without an explicit treatment get one
// inferred from their label and landing section; the inference result is
// returned so callers can surface low-confidence verdicts.
func AddLine(m *models.Model, kind models.StatementKind, line *models.Line, parentID string, pos int) (*treatment.Result, error) {
	st := m.Statement(kind)
	if st == nil {
		return nil, fmt.Errorf("add %q: no %s statement", line.ID, kind)
	}
	if idExists(m, line.ID) {
		return nil, fmt.Errorf("add %q: %w", line.ID, ErrDuplicateID)
	}

	if parentID != "" {
		parent, ok := st.Find(parentID)
		if !ok {
			return nil, fmt.Errorf("add %q under %q: %w", line.ID, parentID, ErrLineNotFound)
		}
		parent.Children = insertChild(parent.Children, line, pos)
	} else {
		st.Lines = insertChild(st.Lines, line, pos)
	}

	if kind != models.StatementCashFlow {
		return nil, nil
	}
	section, ok := classify.SectionOf(line.ID, st)
	if !ok {
		// Landed in the net-change block; no treatment applies there.
		return nil, nil
	}
	res := treatment.Apply(line, section)
	return &res, nil
}

// Remove deletes a line and its subtree. Protected skeleton lines and the
// positional boundary lines cannot be removed.
func Remove(m *models.Model, kind models.StatementKind, id string) error {
	st := m.Statement(kind)
	if st == nil {
		return fmt.Errorf("remove %q: no %s statement", id, kind)
	}
	if models.IsProtected(id) {
		return fmt.Errorf("remove %q: %w", id, ErrProtectedLine)
	}
	if parent := st.Parent(id); parent != nil {
		removed := removeChild(&parent.Children, id)
		if !removed {
			return fmt.Errorf("remove %q: %w", id, ErrLineNotFound)
		}
		return nil
	}
	if !removeChild(&st.Lines, id) {
		return fmt.Errorf("remove %q: %w", id, ErrLineNotFound)
	}
	return nil
}

// Reparent moves a line (with its subtree) under a new parent, or to
// top-level when newParentID is empty. Moving a line into its own subtree is
// rejected. Section and category membership are positional, so the caller
// must treat prior classifications as stale after a successful move.
func Reparent(m *models.Model, kind models.StatementKind, id, newParentID string, pos int) error {
	st := m.Statement(kind)
	if st == nil {
		return fmt.Errorf("reparent %q: no %s statement", id, kind)
	}
	line, ok := st.Find(id)
	if !ok {
		return fmt.Errorf("reparent %q: %w", id, ErrLineNotFound)
	}
	if newParentID != "" {
		if line.Contains(newParentID) {
			return fmt.Errorf("reparent %q under %q: %w", id, newParentID, ErrWouldCycle)
		}
		if _, ok := st.Find(newParentID); !ok {
			return fmt.Errorf("reparent %q under %q: %w", id, newParentID, ErrLineNotFound)
		}
	}

	// Detach after validation so a failed reparent leaves the tree intact.
	if parent := st.Parent(id); parent != nil {
		removeChild(&parent.Children, id)
	} else {
		removeChild(&st.Lines, id)
	}

	if newParentID == "" {
		st.Lines = insertChild(st.Lines, line, pos)
		return nil
	}
	newParent, _ := st.Find(newParentID)
	newParent.Children = insertChild(newParent.Children, line, pos)
	return nil
}

// Reorder moves a line among its current siblings without changing its
// parent.
func Reorder(m *models.Model, kind models.StatementKind, id string, pos int) error {
	st := m.Statement(kind)
	if st == nil {
		return fmt.Errorf("reorder %q: no %s statement", id, kind)
	}
	if _, ok := st.Find(id); !ok {
		return fmt.Errorf("reorder %q: %w", id, ErrLineNotFound)
	}
	parentID := ""
	if parent := st.Parent(id); parent != nil {
		parentID = parent.ID
	}
	return Reparent(m, kind, id, parentID, pos)
}

// SetValue stores a value on an input line for a period. Derived lines are
// read-only; their values come from recomputation.
func SetValue(m *models.Model, kind models.StatementKind, id, period string, v float64) error {
	st := m.Statement(kind)
	if st == nil {
		return fmt.Errorf("set %q: no %s statement", id, kind)
	}
	line, ok := st.Find(id)
	if !ok {
		return fmt.Errorf("set %q: %w", id, ErrLineNotFound)
	}
	if line.Kind != models.KindInput || len(line.Children) > 0 {
		return fmt.Errorf("set %q: line is derived, not editable", id)
	}
	line.SetValue(period, v)
	return nil
}

// Slug derives a snake_case id from a free-text label.
func Slug(label string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

func idExists(m *models.Model, id string) bool {
	for _, st := range m.Statements() {
		if st == nil {
			continue
		}
		if _, ok := st.Find(id); ok {
			return true
		}
	}
	return false
}

func insertChild(siblings []*models.Line, line *models.Line, pos int) []*models.Line {
	if pos < 0 || pos > len(siblings) {
		pos = len(siblings)
	}
	out := make([]*models.Line, 0, len(siblings)+1)
	out = append(out, siblings[:pos]...)
	out = append(out, line)
	out = append(out, siblings[pos:]...)
	return out
}

func removeChild(siblings *[]*models.Line, id string) bool {
	for i, l := range *siblings {
		if l.ID == id {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			return true
		}
	}
	return false
}
