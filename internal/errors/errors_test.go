package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/ripple/pkg/vdom"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"render error", "E001", "Unrenderable value", CategoryRender},
		{"config error", "E101", "Invalid configuration", CategoryConfig},
		{"server error", "E201", "Page not found", CategoryServer},
		{"export error", "E301", "Object storage unavailable", CategoryExport},
		{"unknown error code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryExport, "page %q failed", "home")
	if err.Message != `page "home" failed` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `page "home" failed` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRippleError_Error(t *testing.T) {
	err := New("E201")
	if got, want := err.Error(), "E201: Page not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.Wrap(fmt.Errorf("no page %q", "about"))
	if got, want := err.Error(), `E201: Page not found: no page "about"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestRippleError_Wrap(t *testing.T) {
	cause := os.ErrNotExist
	err := New("E100").Wrap(cause)
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestWithLocationFromYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ripple.yaml")
	content := "server:\n  addr: \":8080\"\nrender:\n  pretty: [\nlog:\n  level: info\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var v map[string]any
	yamlErr := yaml.Unmarshal([]byte(content), &v)
	if yamlErr == nil {
		t.Fatal("expected yaml error")
	}

	err := New("E101").WithLocationFromError(file, yamlErr).Wrap(yamlErr)
	if err.Location == nil {
		t.Fatalf("no location parsed from %q", yamlErr)
	}
	if err.Location.File != file {
		t.Errorf("Location.File = %q", err.Location.File)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}
}

func TestWithLocationFromError_NoLine(t *testing.T) {
	err := New("E101").WithLocationFromError("x.yaml", stderrors.New("boom"))
	if err.Location != nil {
		t.Errorf("Location = %v, want nil", err.Location)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unrenderable", &vdom.UnrenderableTypeError{Type: struct{}{}}, "E001"},
		{"component", &vdom.ComponentRenderError{Component: "Card", Err: stderrors.New("x")}, "E002"},
		{"coercion", &vdom.CoercionError{Attr: "data-x", Value: make(chan int), Err: stderrors.New("x")}, "E003"},
		{"wrapped coercion", fmt.Errorf("render: %w", &vdom.CoercionError{Attr: "a", Err: stderrors.New("x")}), "E003"},
		{"other", stderrors.New("disk full"), "E300"},
		{"already coded", New("E201"), "E201"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err, "E300")
			if got.Code != tt.want {
				t.Errorf("Code = %q, want %q", got.Code, tt.want)
			}
		})
	}

	if FromError(nil, "E300") != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  *Location
		want string
	}{
		{nil, ""},
		{&Location{File: "a.yaml", Line: 3}, "a.yaml:3"},
		{&Location{File: "a.yaml", Line: 3, Column: 7}, "a.yaml:3:7"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E003").Wrap(stderrors.New("unsupported type chan int"))
	formatted := err.Format()

	for _, want := range []string{
		"ERROR E003: Attribute coercion failed",
		"Cause: unsupported type chan int",
		"Hint: Register a coercer",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() should not contain escape codes when colors are disabled")
	}
}

func TestFormatExcerpt(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101")
	err.Location = &Location{File: "ripple.yaml", Line: 1, Column: 3}
	err.Context = []string{"abc", "def"}
	formatted := err.Format()

	for _, want := range []string{"ripple.yaml:1:3", "→    1 │ abc", "│   ^", "2 │ def"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E101")
	err.Location = &Location{File: "ripple.yaml", Line: 4}
	if got, want := err.FormatCompact(), "ripple.yaml:4: E101: Invalid configuration"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E201").Wrap(stderrors.New("about"))
	json := err.FormatJSON()
	for _, want := range []string{`"code":"E201"`, `"category":"server"`, `"cause":"about"`} {
		if !strings.Contains(json, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, json)
		}
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, fmt.Errorf("serve: %w", New("E200")))
	if !strings.Contains(buf.String(), "ERROR E200: Server failed to start") {
		t.Errorf("PrintError() = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain"))
	if got, want := buf.String(), "\nERROR: plain\n\n"; got != want {
		t.Errorf("PrintError() = %q, want %q", got, want)
	}
}

func TestGetAllCodes(t *testing.T) {
	want := []string{"E001", "E002", "E003", "E100", "E101", "E200", "E201", "E300", "E301"}
	if diff := cmp.Diff(want, GetAllCodes()); diff != "" {
		t.Errorf("GetAllCodes() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{Category: CategoryRender, Message: "Custom"})
	defer delete(registry, "E999")

	tmpl, ok := GetTemplate("E999")
	if !ok || tmpl.Message != "Custom" {
		t.Errorf("GetTemplate() = %+v, %v", tmpl, ok)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}
