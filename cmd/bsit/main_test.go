package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

const chillerDoc = `
properties:
  - name: object-name
    value: Chilled Water Temperature
  - name: object-identifier
    value: analog-value,1
  - name: object-type
    value: analog-value
tags:
  - name: status
    value: "true"
    datatype: Boolean
`

const brokenDoc = `
object: {name: Zone, type: analog-input, instance: 2}
tags:
  - {name: status, value: "maybe", datatype: Boolean}
  - {name: "ex:", value: "http://example.org/ns#"}
  - {name: "ex:zone", value: "North"}
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTranslateCmd(t *testing.T) {
	path := writeDoc(t, "chiller.yaml", chillerDoc)

	stdout, _, err := run(t, "", "translate", path)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	want := `_:analog-value-1 bacnet:object-name "Chilled Water Temperature" ;`
	if !strings.Contains(stdout, want) {
		t.Errorf("Expected %q in output, got:\n%s", want, stdout)
	}
	if !strings.Contains(stdout, ":status true .") {
		t.Errorf("Expected status triple, got:\n%s", stdout)
	}
}

func TestTranslateCmd_NTriplesFromStdin(t *testing.T) {
	stdout, _, err := run(t, chillerDoc, "translate", "-", "--ntriples", "--vendor", "15")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	want := `_:analog-value-1 <http://example.com/vendor/15/status> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .`
	if !strings.Contains(stdout, want) {
		t.Errorf("Expected %q in output, got:\n%s", want, stdout)
	}
}

func TestTranslateCmd_TagErrors(t *testing.T) {
	path := writeDoc(t, "zone.yaml", brokenDoc)

	stdout, stderr, err := run(t, "", "translate", path)
	if err == nil {
		t.Fatal("Expected an error for the failing tag")
	}
	if !strings.Contains(stderr, "tag 1:") {
		t.Errorf("Expected tag 1 reported on stderr, got:\n%s", stderr)
	}
	// the remaining tags still translate
	if !strings.Contains(stdout, `ex:zone "North"`) {
		t.Errorf("Expected ex:zone triple, got:\n%s", stdout)
	}
}

func TestCheckCmd(t *testing.T) {
	path := writeDoc(t, "zone.yaml", brokenDoc)

	stdout, _, err := run(t, "", "check", path)
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("Expected 1 of 3 tags invalid, got %v", err)
	}
	for _, want := range []string{"Object: Zone (analog-input,2)", "NAME", "prefix", "ok"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in check output, got:\n%s", want, stdout)
		}
	}
}

func TestRunsCmd(t *testing.T) {
	storeDir := t.TempDir()
	path := writeDoc(t, "chiller.yaml", chillerDoc)

	_, stderr, err := run(t, "", "--store", storeDir, "translate", "--save", path)
	if err != nil {
		t.Fatalf("translate --save failed: %v", err)
	}
	id := regexp.MustCompile(`saved run ([0-9a-f-]{36})`).FindStringSubmatch(stderr)
	if id == nil {
		t.Fatalf("Expected saved run id on stderr, got:\n%s", stderr)
	}

	stdout, _, err := run(t, "", "--store", storeDir, "runs", "--stats")
	if err != nil {
		t.Fatalf("runs failed: %v", err)
	}
	for _, want := range []string{id[1], "analog-value-1", "1 runs, 4 quads"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in runs output, got:\n%s", want, stdout)
		}
	}

	stdout, _, err = run(t, "", "--store", storeDir, "runs", "show", id[1])
	if err != nil {
		t.Fatalf("runs show failed: %v", err)
	}
	if !strings.Contains(stdout, ":status true .") {
		t.Errorf("Expected archived Turtle, got:\n%s", stdout)
	}

	stdout, _, err = run(t, "", "--store", storeDir, "runs", "show", "--triples", id[1])
	if err != nil {
		t.Fatalf("runs show --triples failed: %v", err)
	}
	if n := strings.Count(stdout, " .\n"); n != 4 {
		t.Errorf("Expected 4 archived triples, got %d", n)
	}

	stdout, _, err = run(t, "", "--store", storeDir, "runs", "export")
	if err != nil {
		t.Fatalf("runs export failed: %v", err)
	}
	if n := strings.Count(stdout, " <urn:uuid:"+id[1]+"> .\n"); n != 4 {
		t.Errorf("Expected 4 exported quads, got %d", n)
	}
}

func TestRunsCmd_NoArchive(t *testing.T) {
	_, _, err := run(t, "", "runs")
	if err == nil || !strings.Contains(err.Error(), "no archive configured") {
		t.Errorf("Expected missing archive error, got %v", err)
	}
}

func TestDatatypesCmd(t *testing.T) {
	stdout, _, err := run(t, "", "datatypes")
	if err != nil {
		t.Fatalf("datatypes failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 16 || lines[0] != "None" {
		t.Errorf("Expected 16 datatypes starting with None, got %v", lines)
	}
}

func TestConfigFlagOverrides(t *testing.T) {
	cfgPath := writeDoc(t, "bsit.yaml", "vendor_id: 15\nlog_level: warn\n")
	path := writeDoc(t, "chiller.yaml", chillerDoc)

	stdout, _, err := run(t, "", "--config", cfgPath, "--vendor", "20", "translate", "--ntriples", path)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(stdout, "http://example.com/vendor/20/status") {
		t.Errorf("Expected --vendor to override the config file, got:\n%s", stdout)
	}

	if _, _, err := run(t, "", "--log-level", "loud", "datatypes"); err == nil {
		t.Error("Expected an invalid log level to be rejected")
	}
}
