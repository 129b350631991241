package selector

import (
	"regexp"

	"github.com/cperez90008/kiwiai/core/providers"
	"github.com/mudler/xlog"
)

// Complexity is the routing signal derived from the request text.
type Complexity string

const (
	ComplexitySimple    Complexity = "simple"
	ComplexityReasoning Complexity = "reasoning"
	ComplexityComplex   Complexity = "complex"
)

// complexThreshold is the request length above which a request is always
// treated as complex, regardless of wording.
const complexThreshold = 800

var (
	complexRe   = regexp.MustCompile(`(?i)analyz|research|compar|in depth|explain.*detail|write.*report|essay`)
	reasoningRe = regexp.MustCompile(`(?i)reason|think.*step|multi.?step|plan.*project`)
)

// Classify buckets text into a complexity class. Rules are ordered; the
// first match wins.
func Classify(text string) Complexity {
	switch {
	case len(text) > complexThreshold:
		return ComplexityComplex
	case complexRe.MatchString(text):
		return ComplexityComplex
	case reasoningRe.MatchString(text):
		return ComplexityReasoning
	default:
		return ComplexitySimple
	}
}

// CredentialChecker reports whether a named credential currently holds a real
// secret. Checked fresh on every selection so key changes apply immediately.
type CredentialChecker interface {
	Usable(name string) bool
}

// Selector picks one provider from the catalogue for a given request.
type Selector struct {
	credentials CredentialChecker
}

func New(credentials CredentialChecker) *Selector {
	return &Selector{credentials: credentials}
}

// Select returns the provider that should answer text, or nil when no
// catalogue entry has a usable credential. The catalogue order is the
// priority order, so the default pick is the cheapest available.
func (s *Selector) Select(text string) *providers.Descriptor {
	complexity := Classify(text)

	available := []providers.Descriptor{}
	for _, d := range providers.Catalogue() {
		if s.credentials.Usable(d.CredentialKey) {
			available = append(available, d)
		}
	}
	if len(available) == 0 {
		return nil
	}

	if complexity == ComplexityReasoning {
		for _, d := range available {
			if d.ID == providers.ReasoningSpecialistID {
				xlog.Debug("Routing to reasoning specialist", "model", d.Name)
				return &d
			}
		}
	}

	if complexity == ComplexityComplex {
		for _, d := range available {
			if d.Tier != providers.TierFree {
				xlog.Debug("Upgrading complex request past free tier", "model", d.Name)
				return &d
			}
		}
	}

	return &available[0]
}
