package render

import (
	"fmt"
	"regexp"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/jsonpath"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// SubstitutePlaceholders replaces every {{path}} occurrence in template
// with the stringified result of resolving path against value via
// internal/jsonpath (dot paths up to 3 segments, or "$."-prefixed JSON
// path for anything deeper). An unresolved path is left as an empty
// string.
func SubstitutePlaceholders(template string, value interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := placeholderPattern.FindStringSubmatch(match)[1]
		resolved, ok := jsonpath.Resolve(value, path)
		if !ok {
			return ""
		}
		return stringify(resolved)
	})
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
