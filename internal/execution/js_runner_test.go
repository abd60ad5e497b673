package execution

import (
	"strings"
	"testing"
)

func TestRunJavaScriptCapturesConsole(t *testing.T) {
	output, err := runJavaScript(`console.log("one"); console.log("two", 3);`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(output, "one") || !strings.Contains(output, "two 3") {
		t.Errorf("Expected captured console output, got %q", output)
	}
}

func TestRunJavaScriptEchoesResult(t *testing.T) {
	output, err := runJavaScript("1 + 2")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(output, "=> 3") {
		t.Errorf("Expected the expression result to be echoed, got %q", output)
	}
}

func TestRunJavaScriptNoEchoForUndefined(t *testing.T) {
	output, err := runJavaScript(`var x = 1; console.log(x);`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(output, "=>") {
		t.Errorf("Did not expect an echo for an undefined result, got %q", output)
	}
}

func TestRunJavaScriptFormatsObjects(t *testing.T) {
	output, err := runJavaScript(`console.log({name: "Alice", age: 30});`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(output, `"name": "Alice"`) {
		t.Errorf("Expected objects rendered as indented JSON, got %q", output)
	}
}

func TestRunJavaScriptSurfacesErrors(t *testing.T) {
	_, err := runJavaScript("missingFunction()")
	if err == nil {
		t.Fatal("Expected an error for a runtime failure")
	}
	if !strings.Contains(err.Error(), "missingFunction") {
		t.Errorf("Expected the failing reference in the error, got %v", err)
	}
}
