package cli

import (
	"fmt"
	"strconv"
	"strings"

	"timeline-cli/internal/model"
	"timeline-cli/internal/mutate"
	"timeline-cli/internal/store"
)

func errNotFound(kind, id string) error {
	return mutate.NotFoundError{Kind: kind, ID: id}
}

// resolveEntry looks up ref by exact id or unique id prefix.
func resolveEntry(st *store.Store, ref string) (model.Entry, error) {
	e, ok, err := st.Resolve(ref)
	if err != nil {
		return model.Entry{}, err
	}
	if !ok {
		return model.Entry{}, errNotFound("entry", ref)
	}
	return e, nil
}

func parseIndex(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s index %q: %w", name, s, err)
	}
	return n, nil
}
