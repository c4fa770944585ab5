package stages

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/artifact"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/rollingcontext"
)

// ParseHandler runs one of the extraction strategies over the current OCR
// text file, selected by stage.config's "strategy" field. If the OCR text
// file is absent, parsing is skipped and the existing rolling context
// passes through unchanged.
type ParseHandler struct {
	Recorder *artifact.Recorder
}

type parseConfig struct {
	Strategy string `json:"strategy"`

	// keywordExtraction
	Keywords      []string `json:"keywords"`
	CaseSensitive bool     `json:"caseSensitive"`

	// regexExtraction
	Patterns []regexPattern `json:"patterns"`

	// simpleTableExtraction
	HeaderKeywords []string `json:"headerKeywords"`
	StopKeywords   []string `json:"stopKeywords"`
	DelimiterRegex string   `json:"delimiterRegex"`
	NumericSummary bool     `json:"numericSummary"`
}

type regexPattern struct {
	Name              string `json:"name"`
	Regex             string `json:"regex"`
	CaptureGroupIndex *int   `json:"captureGroupIndex"`
}

const (
	strategyKeyword  = "keywordExtraction"
	strategyRegex    = "regexExtraction"
	strategyTable    = "simpleTableExtraction"
	strategyPassthru = "passthrough"
)

var defaultDelimiterRegex = regexp.MustCompile(`[ \t]{2,}|\t|\|\s*`)

func (h *ParseHandler) Handle(ctx context.Context, sc *StageContext) (rollingcontext.Value, Outcome, error) {
	data, err := os.ReadFile(sc.OCRTextPath)
	if err != nil {
		// Absence is not an error for Parse: it simply has nothing to do.
		return sc.Rolling, OutcomeContinue, nil
	}
	text := string(data)

	cfg := decodeParseConfig(sc.Stage.Config)

	var result interface{}
	switch cfg.Strategy {
	case strategyKeyword:
		result = extractKeywords(text, cfg.Keywords, cfg.CaseSensitive)
	case strategyRegex:
		result = extractRegex(text, cfg.Patterns, sc.Log)
	case strategyTable:
		result = extractTable(text, cfg)
	default:
		result = passthrough(text, cfg.Strategy)
	}

	// Round-trip through JSON so downstream stages always see the
	// canonical decoded shape (map[string]interface{}, []interface{},
	// float64) regardless of which strategy produced the result.
	encoded, err := json.Marshal(result)
	if err != nil {
		return sc.Rolling, OutcomeCritical, errors.Wrap(err, "encoding parse result")
	}
	rolling, err := rollingcontext.FromJSON(encoded)
	if err != nil {
		return sc.Rolling, OutcomeCritical, errors.Wrap(err, "decoding parse result")
	}

	key := artifact.IntermediateKey(sc.Job.ID, sc.Stage.StageName(), "json")
	if recErr := h.Recorder.Record(ctx, sc.Job.ID, sc.Stage.StageName(), models.OutputTypeJSON, key, encoded); recErr != nil && sc.Log != nil {
		sc.Log.WithError(recErr).Warn("failed to record parse artifact metadata")
	}

	return rolling, OutcomeContinue, nil
}

func decodeParseConfig(raw json.RawMessage) parseConfig {
	var cfg parseConfig
	if len(raw) == 0 {
		return cfg
	}
	_ = json.Unmarshal(raw, &cfg)
	return cfg
}

func extractKeywords(text string, keywords []string, caseSensitive bool) map[string]int {
	counts := make(map[string]int, len(keywords))
	haystack := text
	if !caseSensitive {
		haystack = strings.ToLower(haystack)
	}
	for _, kw := range keywords {
		needle := kw
		if !caseSensitive {
			needle = strings.ToLower(needle)
		}
		if needle == "" {
			counts[kw] = 0
			continue
		}
		counts[kw] = strings.Count(haystack, needle)
	}
	return counts
}

func extractRegex(text string, patterns []regexPattern, log logger.Log) map[string]interface{} {
	out := make(map[string]interface{}, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			out[p.Name] = []string{"Regex Compile Error"}
			continue
		}
		groupIdx := 1
		if p.CaptureGroupIndex != nil {
			groupIdx = *p.CaptureGroupIndex
		}
		matches := re.FindAllStringSubmatch(text, -1)
		values := make([]string, 0, len(matches))
		for _, m := range matches {
			if groupIdx >= 0 && groupIdx < len(m) {
				values = append(values, m[groupIdx])
			} else {
				if log != nil {
					log.Warn("regex capture group index out of bounds; using full match")
				}
				values = append(values, m[0])
			}
		}
		out[p.Name] = values
	}
	return out
}

func extractTable(text string, cfg parseConfig) map[string]interface{} {
	lines := strings.Split(text, "\n")

	delim := defaultDelimiterRegex
	if strings.TrimSpace(cfg.DelimiterRegex) != "" {
		if compiled, err := regexp.Compile(cfg.DelimiterRegex); err == nil {
			delim = compiled
		}
	}

	headerIdx := -1
	for i, line := range lines {
		if containsAllCaseInsensitive(line, cfg.HeaderKeywords) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return map[string]interface{}{"headers": []string{}, "rows": [][]string{}}
	}

	headers := splitRow(lines[headerIdx], delim)
	var rows [][]string
	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if matchesAnyCaseInsensitive(line, cfg.StopKeywords) {
			break
		}
		rows = append(rows, splitRow(line, delim))
	}

	result := map[string]interface{}{
		"headers": headers,
		"rows":    rows,
	}

	if cfg.NumericSummary {
		result["numeric_summary"] = numericSummary(headers, rows)
	}
	return result
}

func splitRow(line string, delim *regexp.Regexp) []string {
	fields := delim.Split(strings.TrimSpace(line), -1)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func containsAllCaseInsensitive(line string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

func matchesAnyCaseInsensitive(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func numericSummary(headers []string, rows [][]string) map[string]interface{} {
	summary := make(map[string]interface{}, len(headers))
	for col, header := range headers {
		sum := 0.0
		count := 0
		allNumeric := len(rows) > 0
		for _, row := range rows {
			if col >= len(row) {
				allNumeric = false
				break
			}
			v, ok := parseNumber(row[col])
			if !ok {
				allNumeric = false
				break
			}
			sum += v
			count++
		}
		if allNumeric && count > 0 {
			summary[header] = map[string]float64{"sum": sum, "avg": sum / float64(count)}
		}
	}
	return summary
}

func passthrough(text, strategyUsed string) map[string]interface{} {
	if strategyUsed == "" {
		strategyUsed = strategyPassthru
	}
	scanner := bufio.NewScanner(strings.NewReader(text))
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return map[string]interface{}{
		"strategy_used": strategyUsed,
		"lines":         lines,
	}
}
