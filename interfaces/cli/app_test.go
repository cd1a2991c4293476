package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/domain/provider"
)

const testManifest = `
name: aws-ops
description: Converters for the aws provider
providers:
  - id: aws
  - id: titus
handlers:
  - id: deploy-v1
    name: deployServerGroup
    kind: converter
    providers: [aws]
    versions: ["v1"]
    default: true
  - id: deploy-v2
    name: deployServerGroup
    kind: converter
    providers: [aws]
    versions: ["v2"]
  - id: resize-legacy
    name: resizeServerGroup
    kind: converter
    component: resizeServerGroupDescription
  - id: deploy-validator
    name: deployServerGroup
    kind: validator
    providers: [aws]
  - id: titus-a
    name: disableServerGroup
    kind: converter
    providers: [titus]
  - id: titus-b
    name: disableServerGroup
    kind: converter
    providers: [titus]
`

func writeTestManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestApp_Version(t *testing.T) {
	stdout, _, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(stdout, "opregistry version "+Version) {
		t.Errorf("version output missing version, got: %s", stdout)
	}
}

func TestApp_Help(t *testing.T) {
	stdout, _, err := runApp(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"resolve", "parse", "validate", "list", "export-schema", "catalog", "watch"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output missing %q, got: %s", want, stdout)
		}
	}
}

func TestApp_Parse(t *testing.T) {
	tests := []struct {
		name        string
		arg         string
		wantBase    string
		wantVersion string
		wantErr     bool
	}{
		{name: "plain", arg: "deployServerGroup", wantBase: "deployServerGroup", wantVersion: "(none)"},
		{name: "versioned", arg: "deployServerGroup@v2", wantBase: "deployServerGroup", wantVersion: "v2"},
		{name: "two separators", arg: "a@b@c", wantErr: true},
		{name: "empty version", arg: "a@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runApp(t, "parse", tt.arg)
			if tt.wantErr {
				if !errors.Is(err, operation.ErrMalformedVersionedName) {
					t.Errorf("parse error = %v, want ErrMalformedVersionedName", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if !strings.Contains(stdout, "base:    "+tt.wantBase) {
				t.Errorf("parse output missing base, got: %s", stdout)
			}
			if !strings.Contains(stdout, "version: "+tt.wantVersion) {
				t.Errorf("parse output missing version, got: %s", stdout)
			}
		})
	}
}

func TestApp_Resolve(t *testing.T) {
	path := writeTestManifest(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default converter", args: []string{"--provider", "aws", "deployServerGroup"}, want: "deploy-v1"},
		{name: "pinned version", args: []string{"--provider", "aws", "deployServerGroup@v2"}, want: "deploy-v2"},
		{name: "legacy component", args: []string{"resizeServerGroupDescription"}, want: "resize-legacy"},
		{name: "validator", args: []string{"--kind", "validator", "-p", "aws", "deployServerGroup"}, want: "deploy-validator"},
		{name: "validator absent", args: []string{"--kind", "validator", "-p", "aws", "deployServerGroup@v9"}, want: "no validator configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"resolve", "-c", path}, tt.args...)
			stdout, _, err := runApp(t, args...)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if got := strings.TrimSpace(stdout); got != tt.want {
				t.Errorf("resolve output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApp_ResolveErrors(t *testing.T) {
	path := writeTestManifest(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "no converter for version",
			args:    []string{"--provider", "aws", "deployServerGroup@v3"},
			wantErr: operation.ErrConverterNotFound,
			wantMsg: "No atomic operation converter found for description 'deployServerGroup@v3' and cloud provider 'aws'",
		},
		{
			name:    "unknown provider",
			args:    []string{"--provider", "gce", "deployServerGroup"},
			wantErr: provider.ErrProviderNotFound,
			wantMsg: "No cloud provider named 'gce' found",
		},
		{
			name:    "ambiguous registration",
			args:    []string{"--provider", "titus", "disableServerGroup"},
			wantErr: operation.ErrAmbiguousHandler,
			wantMsg: "More than one (2) atomic operation converters found",
		},
		{
			name:    "legacy miss without provider",
			args:    []string{"deployServerGroup"},
			wantErr: operation.ErrComponentNotFound,
		},
		{
			name:    "malformed name",
			args:    []string{"--provider", "aws", "deploy@"},
			wantErr: operation.ErrMalformedVersionedName,
		},
		{
			name:    "unknown kind",
			args:    []string{"--kind", "mutator", "deployServerGroup"},
			wantErr: operation.ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"resolve", "-c", path}, tt.args...)
			_, _, err := runApp(t, args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resolve error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("resolve error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestApp_ResolveWithCatalogDB(t *testing.T) {
	path := writeTestManifest(t)
	db := filepath.Join(t.TempDir(), "catalog.db")

	if _, _, err := runApp(t, "catalog", "add", "--db", db, "aws-gov", "--tag", "aws"); err != nil {
		t.Fatalf("catalog add failed: %v", err)
	}

	stdout, _, err := runApp(t, "resolve", "-c", path, "--catalog-db", db, "--provider", "aws-gov", "deployServerGroup@v2")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got := strings.TrimSpace(stdout); got != "deploy-v2" {
		t.Errorf("resolve output = %q, want deploy-v2", got)
	}

	// A catalog entry that repeats a manifest provider makes the id ambiguous.
	if _, _, err := runApp(t, "catalog", "add", "--db", db, "aws"); err != nil {
		t.Fatalf("catalog add failed: %v", err)
	}
	_, _, err = runApp(t, "resolve", "-c", path, "--catalog-db", db, "--provider", "aws", "deployServerGroup")
	if !errors.Is(err, provider.ErrDuplicateProvider) {
		t.Fatalf("resolve error = %v, want ErrDuplicateProvider", err)
	}
	if !strings.Contains(err.Error(), "More than one (2) cloud providers found for the identifier 'aws'") {
		t.Errorf("unexpected duplicate message: %v", err)
	}
}

func TestApp_Catalog(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	stdout, _, err := runApp(t, "catalog", "list", "--db", db)
	if err != nil {
		t.Fatalf("catalog list failed: %v", err)
	}
	if !strings.Contains(stdout, "No providers") {
		t.Errorf("expected empty catalog, got: %s", stdout)
	}

	stdout, _, err = runApp(t, "catalog", "add", "--db", db, "kubernetes")
	if err != nil {
		t.Fatalf("catalog add failed: %v", err)
	}
	if !strings.Contains(stdout, "Added provider kubernetes (tag kubernetes)") {
		t.Errorf("unexpected add output: %s", stdout)
	}

	stdout, _, err = runApp(t, "catalog", "list", "--db", db)
	if err != nil {
		t.Fatalf("catalog list failed: %v", err)
	}
	if !strings.Contains(stdout, "kubernetes") {
		t.Errorf("catalog list missing provider, got: %s", stdout)
	}

	if _, _, err := runApp(t, "catalog", "remove", "--db", db, "kubernetes"); err != nil {
		t.Fatalf("catalog remove failed: %v", err)
	}
	_, _, err = runApp(t, "catalog", "remove", "--db", db, "kubernetes")
	if !errors.Is(err, provider.ErrProviderNotFound) {
		t.Errorf("second remove error = %v, want ErrProviderNotFound", err)
	}
}

func TestApp_CatalogRequiresStore(t *testing.T) {
	if _, _, err := runApp(t, "catalog", "list"); err == nil {
		t.Error("catalog list without a store succeeded")
	}
	if _, _, err := runApp(t, "catalog", "list", "--db", "a.db", "--redis", "localhost:6379"); err == nil {
		t.Error("catalog list with two stores succeeded")
	}
}

func TestApp_Validate(t *testing.T) {
	path := writeTestManifest(t)

	stdout, _, err := runApp(t, "validate", "-c", path)
	if err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	for _, want := range []string{"Manifest is valid", "Name: aws-ops", "Providers: 2", "Converters: 5", "Validators: 1", "Named components: 1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("validate output missing %q, got: %s", want, stdout)
		}
	}
}

func TestApp_ValidateInvalid(t *testing.T) {
	content := `
name: broken
handlers:
  - id: h
    name: op@v1
    kind: converter
    providers: [nowhere]
`
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	_, _, err := runApp(t, "validate", "-c", path)
	if err == nil {
		t.Fatal("validate succeeded on an invalid manifest")
	}
	if !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("validate error = %v, want unknown provider", err)
	}
}

func TestApp_ValidateRequiresConfig(t *testing.T) {
	if _, _, err := runApp(t, "validate"); err == nil {
		t.Error("validate without -c succeeded")
	}
}

func TestApp_List(t *testing.T) {
	path := writeTestManifest(t)

	stdout, _, err := runApp(t, "list", "-c", path)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"PROVIDER", "titus", "deploy-v1", "default,v1", "resizeServerGroupDescription"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("list output missing %q, got: %s", want, stdout)
		}
	}

	stdout, _, err = runApp(t, "list", "-c", path, "--json")
	if err != nil {
		t.Fatalf("list --json failed: %v", err)
	}
	var view listView
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("list --json output is not JSON: %v", err)
	}
	if view.Name != "aws-ops" || len(view.Providers) != 2 || len(view.Handlers) != 6 {
		t.Errorf("list --json = %+v", view)
	}
}

func TestApp_ExportSchema(t *testing.T) {
	stdout, _, err := runApp(t, "export-schema")
	if err != nil {
		t.Fatalf("export-schema failed: %v", err)
	}
	if !strings.Contains(stdout, `"handlers"`) {
		t.Errorf("schema missing handlers, got: %s", stdout)
	}

	out := filepath.Join(t.TempDir(), "schema.json")
	stdout, _, err = runApp(t, "export-schema", "-o", out)
	if err != nil {
		t.Fatalf("export-schema -o failed: %v", err)
	}
	if !strings.Contains(stdout, "Schema exported to") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("schema file not written: %v", err)
	}
}

func TestApp_TraceAndMetrics(t *testing.T) {
	path := writeTestManifest(t)

	_, stderr, err := runApp(t, "--trace", "stdout", "--metrics", "resolve", "-c", path, "-p", "aws", "deployServerGroup")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !strings.Contains(stderr, "opregistry.resolve") {
		t.Errorf("stderr missing resolve span, got: %s", stderr)
	}
	if !strings.Contains(stderr, "opregistry.resolutions") {
		t.Errorf("stderr missing resolution counter, got: %s", stderr)
	}
}

func TestApp_TraceNoop(t *testing.T) {
	path := writeTestManifest(t)

	stdout, stderr, err := runApp(t, "--trace", "noop", "resolve", "-c", path, "-p", "aws", "deployServerGroup")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if strings.TrimSpace(stdout) == "" {
		t.Error("resolve printed no handler")
	}
	if strings.Contains(stderr, "opregistry.resolve") {
		t.Errorf("noop exporter wrote spans: %s", stderr)
	}
}

func TestApp_GlobalFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "log level", args: []string{"--log-level", "loud", "version"}},
		{name: "log format", args: []string{"--log-format", "xml", "version"}},
		{name: "trace exporter", args: []string{"--trace", "zipkin", "version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runApp(t, tt.args...); err == nil {
				t.Errorf("%v succeeded", tt.args)
			}
		})
	}
}

func TestApp_Watch(t *testing.T) {
	path := writeTestManifest(t)

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := app.ExecuteWithArgs(ctx, []string{"watch", "-c", path}); err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "loaded 2 providers, 6 handlers") {
		t.Errorf("watch output = %s", stdout.String())
	}
}
