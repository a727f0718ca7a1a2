package logging

import "testing"

func TestNewDefaults(t *testing.T) {
	logger, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if logger == nil {
		t.Fatal("expected a logger")
	}
}

func TestNewStyles(t *testing.T) {
	for _, style := range []Style{StyleTerminal, StyleJSON, StyleNoop} {
		logger, err := New(&Config{Style: style, Level: "debug"})
		if err != nil {
			t.Fatalf("New(%s): %v", style, err)
		}
		if logger == nil {
			t.Fatalf("New(%s): nil logger", style)
		}
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestNewBadStyle(t *testing.T) {
	if _, err := New(&Config{Style: "xml"}); err == nil {
		t.Fatal("expected an error for an unknown style")
	}
}
