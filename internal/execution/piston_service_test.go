package execution

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunUnsupportedLanguage(t *testing.T) {
	// No server: an unsupported language must fail before any request.
	s := NewService("http://invalid.localhost")

	_, err := s.Run("print 1", "cobol")
	if err == nil {
		t.Fatal("Expected an error for an unsupported language")
	}
	if err.Error() != "Language cobol is not supported." {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("python") {
		t.Error("Expected python to be supported")
	}
	if IsSupported("cobol") {
		t.Error("Did not expect cobol to be supported")
	}
}

func TestRunReturnsSandboxOutput(t *testing.T) {
	var gotRequest executeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"run":{"output":"hello\n","stderr":""}}`))
	}))
	defer server.Close()

	s := NewService(server.URL)
	output, err := s.Run("print('hello')", "python")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if output != "hello\n" {
		t.Errorf("Expected sandbox output, got %q", output)
	}
	if gotRequest.Language != "python" || gotRequest.Version != "3.10.0" {
		t.Errorf("Expected python 3.10.0 request, got %s %s", gotRequest.Language, gotRequest.Version)
	}
}

func TestRunReturnsStderrAsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"run":{"output":"","stderr":"NameError: name 'x' is not defined"}}`))
	}))
	defer server.Close()

	s := NewService(server.URL)
	_, err := s.Run("print(x)", "python")
	if err == nil {
		t.Fatal("Expected stderr to surface as an error")
	}
	if !strings.Contains(err.Error(), "NameError") {
		t.Errorf("Expected the stderr text, got %v", err)
	}
}

func TestRunNoOutputMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"run":{"output":"","stderr":""}}`))
	}))
	defer server.Close()

	s := NewService(server.URL)
	output, err := s.Run("x = 1", "python")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if output != "Program executed successfully with no output." {
		t.Errorf("Unexpected no-output message: %q", output)
	}
}

func TestWithBoilerplate(t *testing.T) {
	java := withBoilerplate(`System.out.println("hi");`, "java")
	if !strings.Contains(java, "public class Main") || !strings.Contains(java, `System.out.println("hi");`) {
		t.Errorf("Expected java boilerplate around the code, got %q", java)
	}

	kotlin := withBoilerplate(`println("hi")`, "kotlin")
	if !strings.HasPrefix(kotlin, "fun main()") {
		t.Errorf("Expected kotlin boilerplate, got %q", kotlin)
	}

	python := withBoilerplate("print(1)", "python")
	if python != "print(1)" {
		t.Errorf("Expected python code unchanged, got %q", python)
	}
}
