package pipeline

import "github.com/archis17/AI-KYC/internal/documents"

// Ready reports whether a case may be aggregated: it has at least one
// document and every document has all three stage slots set. Failure and
// skip markers count as set; only a never-attempted stage holds the gate.
// Pure function over document state, evaluated after every completed run.
func Ready(docs []documents.Document) bool {
	if len(docs) == 0 {
		return false
	}

	for _, d := range docs {
		if d.Extraction == nil || d.Entities == nil || d.Validation == nil {
			return false
		}
	}
	return true
}
