package assistant

import "testing"

func TestSplitMessagePlainText(t *testing.T) {
	parts := SplitMessage("Just an answer without code.")
	if len(parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(parts))
	}
	if parts[0].Type != "text" || parts[0].Content != "Just an answer without code." {
		t.Errorf("Unexpected part: %+v", parts[0])
	}
}

func TestSplitMessageCodeFence(t *testing.T) {
	content := "Here is the fix:\n```python\nprint('hi')\n```\nHope that helps."
	parts := SplitMessage(content)
	if len(parts) != 3 {
		t.Fatalf("Expected 3 parts, got %d", len(parts))
	}
	if parts[0].Type != "text" {
		t.Errorf("Expected leading text part, got %+v", parts[0])
	}
	if parts[1].Type != "code" || parts[1].Language != "python" || parts[1].Content != "print('hi')" {
		t.Errorf("Unexpected code part: %+v", parts[1])
	}
	if parts[2].Type != "text" {
		t.Errorf("Expected trailing text part, got %+v", parts[2])
	}
}

func TestSplitMessageDefaultLanguage(t *testing.T) {
	parts := SplitMessage("```\nconsole.log(1);\n```")
	if len(parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(parts))
	}
	if parts[0].Type != "code" || parts[0].Language != "javascript" {
		t.Errorf("Expected javascript as the default language, got %+v", parts[0])
	}
}

func TestSplitMessageMultipleFences(t *testing.T) {
	content := "```go\nfmt.Println(1)\n```\nand\n```go\nfmt.Println(2)\n```"
	parts := SplitMessage(content)
	code := 0
	for _, p := range parts {
		if p.Type == "code" {
			code++
			if p.Language != "go" {
				t.Errorf("Expected go code part, got %+v", p)
			}
		}
	}
	if code != 2 {
		t.Errorf("Expected 2 code parts, got %d", code)
	}
}

func TestSplitMessageEmpty(t *testing.T) {
	parts := SplitMessage("")
	if len(parts) != 1 || parts[0].Type != "text" {
		t.Errorf("Expected a single empty text part, got %+v", parts)
	}
}
