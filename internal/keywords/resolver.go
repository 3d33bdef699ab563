// Package keywords reconciles an extraction's scope and global keyword string
// with per-document criteria into the concrete keyword list per document.
package keywords

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/constants"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

// SplitList splits a comma-separated keyword string, trimming whitespace,
// folding to lower case and dropping empties. Returns nil when nothing
// survives, like the matchers do.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		k := strings.ToLower(strings.TrimSpace(p))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Resolution maps document ID to the keyword list active for it. Documents
// with no entry (or an empty list) are skipped by the orchestrator.
type Resolution map[uuid.UUID][]string

// Resolve computes the per-document keyword lists for one extraction.
//
// Under "all" and "specific-pages" every document gets the global list.
// Under "per-document" a document only gets keywords when a criteria entry
// with its ID carries a non-empty list; criteria for unknown document IDs are
// ignored.
func Resolve(scope constants.Scope, globalKeywords string, criteria []entity.DocumentCriteria, docs []entity.Document, log *slog.Logger) Resolution {
	if log == nil {
		log = slog.Default()
	}
	res := make(Resolution, len(docs))

	if scope != constants.ScopePerDocument {
		global := SplitList(globalKeywords)
		if len(global) == 0 {
			log.Warn("global keyword list is empty; all documents will be skipped", "scope", scope)
			return res
		}
		for _, d := range docs {
			res[d.ID] = global
		}
		return res
	}

	byDoc := make(map[uuid.UUID]string, len(criteria))
	for _, c := range criteria {
		byDoc[c.DocumentID] = c.Keywords
	}
	for _, d := range docs {
		raw, ok := byDoc[d.ID]
		if !ok {
			log.Info("document has no criteria entry; skipping", "document_id", d.ID, "name", d.Name)
			continue
		}
		list := SplitList(raw)
		if len(list) == 0 {
			log.Info("document criteria resolved to zero keywords; skipping", "document_id", d.ID, "name", d.Name)
			continue
		}
		res[d.ID] = list
	}
	return res
}
