package analysis

import (
	"math"
	"regexp"
	"strings"
)

// Complexity is the pattern-matched big-O guess for a piece of code. This is
// a crude heuristic over the source text, not static analysis.
type Complexity struct {
	Time        string `json:"time"`
	Space       string `json:"space"`
	Explanation string `json:"explanation"`
}

// Metrics is the full heuristic report for one snippet.
type Metrics struct {
	Complexity           Complexity `json:"complexity"`
	LinesOfCode          int        `json:"lines_of_code"`
	CyclomaticComplexity int        `json:"cyclomatic_complexity"`
	MaintainabilityScore int        `json:"maintainability_score"`
	Warnings             []string   `json:"warnings"`
}

// Control-flow keywords counted by the cyclomatic approximation, shared
// across the supported languages.
var controlFlowKeywords = []string{
	"if", "else", "for", "while", "case", "&&", "||",
	"catch", "switch", "foreach", "elif",
}

var (
	ternaryPattern      = regexp.MustCompile(`\?`)
	functionNamePattern = regexp.MustCompile(`(\w+)\s*\(`)
	magicNumberPattern  = regexp.MustCompile(`\b\d+\b`)
	binaryDigitPattern  = regexp.MustCompile(`\b[0-1]\b`)
	leadingSpacePattern = regexp.MustCompile(`^\s+`)
)

// Analyze is a pure function of the source text and language tag; it is
// recomputed on every input change.
func Analyze(code, language string) Metrics {
	lines := LinesOfCode(code)
	cyclomatic := CyclomaticComplexity(code)
	return Metrics{
		Complexity:           EstimateComplexity(code),
		LinesOfCode:          lines,
		CyclomaticComplexity: cyclomatic,
		MaintainabilityScore: MaintainabilityScore(code, lines, cyclomatic),
		Warnings:             Warnings(code, language),
	}
}

// LinesOfCode counts non-empty lines, excluding // and # comment lines.
func LinesOfCode(code string) int {
	count := 0
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		count++
	}
	return count
}

// CyclomaticComplexity approximates cyclomatic complexity: base 1, plus one
// per control-flow keyword occurrence, plus one per ternary `?`.
func CyclomaticComplexity(code string) int {
	complexity := 1
	for _, keyword := range controlFlowKeywords {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		complexity += len(pattern.FindAllStringIndex(code, -1))
	}
	complexity += len(ternaryPattern.FindAllStringIndex(code, -1))
	return complexity
}

// MaintainabilityScore maps code length, the complexity count and the line
// count onto a [0, 100] score via a simplified maintainability index formula.
func MaintainabilityScore(code string, linesOfCode, cyclomatic int) int {
	length := float64(len(code))
	volume := length * math.Log2(length)
	effort := float64(cyclomatic) * volume
	index := (171 - 5.2*math.Log(effort) - 0.23*float64(cyclomatic) - 16.2*math.Log(float64(linesOfCode))) * 100 / 171
	index = math.Max(0, math.Min(100, index))
	if math.IsNaN(index) {
		return 0
	}
	return int(math.Round(index))
}

// EstimateComplexity guesses time/space complexity from surface patterns:
// two loop keywords suggest quadratic time, one suggests linear, and a
// function name echoed alongside a return suggests recursion.
func EstimateComplexity(code string) Complexity {
	timeComplexity := "O(n)"
	spaceComplexity := "O(1)"
	explanation := "Linear time complexity with constant space usage."

	forCount := strings.Count(code, "for")
	switch {
	case forCount >= 2:
		timeComplexity = "O(n²)"
		explanation = "Quadratic time complexity due to nested loops."
	case forCount == 1 || strings.Contains(code, "while"):
		timeComplexity = "O(n)"
		explanation = "Linear time complexity due to single loop iteration."
	}

	if match := functionNamePattern.FindStringSubmatch(code); match != nil {
		name := match[1]
		if strings.Contains(code, "return") && strings.Count(code, name) >= 2 {
			timeComplexity = "O(log n)"
			explanation = "Logarithmic time complexity due to recursive implementation."
		}
	}

	if strings.Contains(code, "new Array") || strings.Contains(code, "[]") || strings.Contains(code, "List") {
		spaceComplexity = "O(n)"
		explanation += " Linear space complexity due to data structure usage."
	}

	return Complexity{Time: timeComplexity, Space: spaceComplexity, Explanation: explanation}
}

// Warnings flags surface-level smells: overlong functions, deep nesting,
// magic numbers and `var` in JavaScript/TypeScript.
func Warnings(code, language string) []string {
	warnings := []string{}

	if len(strings.Split(code, "\n")) > 30 {
		warnings = append(warnings, "Function is too long. Consider breaking it into smaller functions.")
	}

	maxIndent := 0
	for _, line := range strings.Split(code, "\n") {
		if indent := leadingSpacePattern.FindString(line); len(indent) > maxIndent {
			maxIndent = len(indent)
		}
	}
	if maxIndent > 16 {
		warnings = append(warnings, "Deep nesting detected. Consider refactoring to reduce complexity.")
	}

	// 0 and 1 are not considered magic.
	stripped := binaryDigitPattern.ReplaceAllString(code, "")
	if magicNumberPattern.MatchString(stripped) {
		warnings = append(warnings, "Magic numbers detected. Consider using named constants.")
	}

	if language == "javascript" || language == "typescript" {
		if strings.Contains(code, "var ") {
			warnings = append(warnings, `Use of "var" detected. Consider using "const" or "let" instead.`)
		}
	}

	return warnings
}
