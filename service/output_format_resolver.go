package service

import (
	"fmt"

	"github.com/ludo-technologies/bcflow/domain"
)

// OutputFormatResolver resolves output format and file extension from flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates the report file flags and the stdout format name. At
// most one of html, json and yaml may be true; each selects a report file and
// returns its extension. Otherwise name is parsed and the extension is empty.
func (r *OutputFormatResolver) Determine(html, json, yaml bool, name string) (domain.OutputFormat, string, error) {
	count := 0
	for _, set := range []bool{html, json, yaml} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", "", fmt.Errorf("only one output format flag can be specified")
	}

	switch {
	case html:
		return domain.OutputFormatHTML, "html", nil
	case json:
		return domain.OutputFormatJSON, "json", nil
	case yaml:
		return domain.OutputFormatYAML, "yaml", nil
	}

	format, err := domain.ParseOutputFormat(name)
	if err != nil {
		return "", "", err
	}
	return format, "", nil
}
