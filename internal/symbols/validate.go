package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"chimp/internal/object"
)

// Validate walks the table checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error
	data := t.Scopes.data

	if t.Scopes.Len() > 0 && !t.Root.IsValid() {
		errs = append(errs, fmt.Errorf("table has scopes but no root"))
	}

	for idx := 1; idx < len(data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := data[idx]
		if scope.Kind == ScopeInvalid || scope.Kind > ScopeTask {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind %d", scopeID, scope.Kind))
		}

		// Every scope except the root hangs under a parent that lists it.
		switch {
		case scopeID == t.Root:
			if scope.Parent.IsValid() {
				errs = append(errs, fmt.Errorf("root scope %d has parent %d", scopeID, scope.Parent))
			}
		case !scope.Parent.IsValid():
			errs = append(errs, fmt.Errorf("scope %d has no parent", scopeID))
		case int(scope.Parent) >= len(data) || scope.Parent == scopeID:
			errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
		case !slices.Contains(data[scope.Parent].Children, scopeID):
			errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
		}

		for _, child := range scope.Children {
			if int(child) >= len(data) || child == scopeID || !child.IsValid() {
				errs = append(errs, fmt.Errorf("scope %d has invalid child %d", scopeID, child))
				continue
			}
			if data[child].Parent != scopeID {
				errs = append(errs, fmt.Errorf("scope %d child %d missing parent backlink", scopeID, child))
			}
		}

		// Each scope-introducing node maps back to exactly this scope.
		if got, ok := t.byNode[scope.Owner]; !ok || got != scopeID {
			errs = append(errs, fmt.Errorf("scope %d owner %s maps to scope %d", scopeID, scope.Owner, got))
		}

		scope.Symbols.Each(func(key object.Value, flags Flags) bool {
			if _, ok := key.(object.Str); !ok {
				errs = append(errs, fmt.Errorf("scope %d has non-string key %s", scopeID, key))
			}
			if flags&^(KindMask|RoleMask) != 0 || flags.Kind() > ScopeTask {
				errs = append(errs, fmt.Errorf("scope %d name %s has invalid flags %#x", scopeID, key, uint32(flags)))
			}
			return true
		})
	}

	if len(t.byNode) != t.Scopes.Len() {
		errs = append(errs, fmt.Errorf("%d owner nodes for %d scopes", len(t.byNode), t.Scopes.Len()))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}
