package classify

import (
	"regexp"
	"strings"
)

// File carries the metadata the classifier looks at.
type File struct {
	Name     string
	MimeType string
}

// Result is the inferred classification. Empty fields mean "no inference";
// callers must not treat that as an error.
type Result struct {
	Category string
	Stage    string
}

type rule struct {
	match    *regexp.Regexp
	category string
	stage    string
}

// Ordering matters: earlier rules shadow later ones. Patterns keep the
// Portuguese vocabulary the Drive folders use in practice.
var rules = []rule{
	{regexp.MustCompile(`(?i)contrato|contract`), "contract", "Closed"},
	{regexp.MustCompile(`(?i)proposta|proposal|orcamento|orçamento|quote`), "proposal", "Proposal"},
	{regexp.MustCompile(`(?i)nota\s*fiscal|nf-e|nfe|invoice`), "invoice", "Closed"},
	{regexp.MustCompile(`(?i)curr[ií]culo|cv|resume`), "resume", "Discovery"},
}

// Classify maps a file name and MIME type to a category/stage pair.
// The first name rule that matches wins. When no name rule matches, MIME
// fallbacks apply: PDF types get category "pdf", image types get "image",
// neither with a stage. An empty Result is a valid outcome.
func Classify(file File) Result {
	for _, r := range rules {
		if r.match.MatchString(file.Name) {
			return Result{Category: r.category, Stage: r.stage}
		}
	}

	if strings.Contains(file.MimeType, "pdf") {
		return Result{Category: "pdf"}
	}
	if strings.HasPrefix(file.MimeType, "image/") {
		return Result{Category: "image"}
	}

	return Result{}
}
