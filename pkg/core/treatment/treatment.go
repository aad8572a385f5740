// Package treatment assigns a cash-flow sign and rationale to user-authored
// lines from their free-text label. It runs exactly once, at authoring time;
// the result is persisted onto the line's cfs link so evaluation and
// compilation never re-run the heuristic.
package treatment

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v2"

	"finmodel/pkg/models"

	_ "embed"
)

//go:embed dictionaries.yaml
var dictionaryData []byte

// Confidence grades how the verdict was reached.
type Confidence string

const (
	// ConfidenceHigh means a curated dictionary entry matched.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means a section keyword matched.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow means the section fallback sign was applied. The item
	// is still accepted; the flag is for the caller to surface.
	ConfidenceLow Confidence = "low"
)

// Result is the inferred treatment for one label.
type Result struct {
	Impact      models.Impact
	Description string
	Confidence  Confidence
}

type dictEntry struct {
	Match       string        `yaml:"match"`
	Impact      models.Impact `yaml:"impact"`
	Description string        `yaml:"description"`
}

type keywordRule struct {
	Word        string        `yaml:"word"`
	Impact      models.Impact `yaml:"impact"`
	Description string        `yaml:"description"`
}

type sectionDict struct {
	DefaultImpact      models.Impact `yaml:"default_impact"`
	DefaultDescription string        `yaml:"default_description"`
	Entries            []dictEntry   `yaml:"entries"`
	Keywords           []keywordRule `yaml:"keywords"`
}

var dictionaries map[models.Section]sectionDict

func init() {
	raw := map[string]sectionDict{}
	if err := yaml.Unmarshal(dictionaryData, &raw); err != nil {
		panic("treatment: embedded dictionaries are malformed: " + err.Error())
	}
	dictionaries = make(map[models.Section]sectionDict, len(raw))
	for name, d := range raw {
		dictionaries[models.Section(name)] = d
	}
}

// fuzzyThreshold is the minimum normalized similarity for a dictionary entry
// to count as a match when neither side contains the other.
const fuzzyThreshold = 0.82

// Infer returns the treatment for a label in a target section: curated
// dictionary first (exact, substring, then fuzzy), section keywords next,
// section default last. Items are never rejected; an unmatched label comes
// back with ConfidenceLow.
func Infer(label string, section models.Section) Result {
	dict, ok := dictionaries[section]
	if !ok {
		// Balance-sheet sections carry no cash treatment of their own.
		return Result{Impact: models.ImpactNeutral, Description: "No cash flow treatment for this section", Confidence: ConfidenceLow}
	}

	norm := normalize(label)

	for _, e := range dict.Entries {
		if matches(norm, normalize(e.Match)) {
			return Result{Impact: e.Impact, Description: e.Description, Confidence: ConfidenceHigh}
		}
	}
	for _, k := range dict.Keywords {
		if strings.Contains(norm, normalize(k.Word)) {
			return Result{Impact: k.Impact, Description: k.Description, Confidence: ConfidenceMedium}
		}
	}
	return Result{Impact: dict.DefaultImpact, Description: dict.DefaultDescription, Confidence: ConfidenceLow}
}

// Apply stores an inferred link on a line that has none. Explicit links are
// authoritative and left alone.
func Apply(line *models.Line, section models.Section) Result {
	res := Infer(line.Label, section)
	if line.CFSLink == nil {
		line.CFSLink = &models.CFSLink{
			Section:     section,
			Impact:      res.Impact,
			Description: res.Description,
			Inferred:    true,
		}
	}
	return res
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func matches(label, entry string) bool {
	if label == "" || entry == "" {
		return false
	}
	if label == entry || strings.Contains(label, entry) || strings.Contains(entry, label) {
		return true
	}
	return similarity(label, entry) >= fuzzyThreshold
}

// similarity is 1 minus the normalized edit distance, the same measure the
// transaction reconciler literature uses for near-duplicate descriptions.
func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
