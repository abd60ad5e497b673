package execution

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// runJavaScript executes JavaScript in-process instead of calling the remote
// sandbox, capturing console output the way the original in-browser runner
// did. Sandboxing is limited to what the interpreter itself provides.
func runJavaScript(code string) (string, error) {
	vm := goja.New()

	var logs []string
	console := vm.NewObject()
	if err := console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, formatValue(arg))
		}
		logs = append(logs, strings.Join(parts, " "))
		return goja.Undefined()
	}); err != nil {
		return "", fmt.Errorf("failed to install console: %w", err)
	}
	if err := vm.Set("console", console); err != nil {
		return "", fmt.Errorf("failed to install console: %w", err)
	}

	value, err := vm.RunString(code)
	if err != nil {
		return "", fmt.Errorf("%s", err.Error())
	}

	result := strings.Join(logs, "\n")
	if value != nil && !goja.IsUndefined(value) {
		result += "\n=> " + formatValue(value)
	}
	return result, nil
}

// formatValue renders a JS value for output: objects and arrays as indented
// JSON, everything else via its string conversion.
func formatValue(value goja.Value) string {
	if value == nil {
		return "undefined"
	}
	if goja.IsUndefined(value) || goja.IsNull(value) {
		return value.String()
	}
	switch value.Export().(type) {
	case map[string]interface{}, []interface{}:
		if encoded, err := json.MarshalIndent(value.Export(), "", "  "); err == nil {
			return string(encoded)
		}
	}
	return value.String()
}
