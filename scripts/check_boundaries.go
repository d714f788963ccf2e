package main

import (
	"cmp"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	repoModule = "quad"
	// sharedKernel holds the event envelope and outbox row types every
	// context may build on.
	sharedKernel = repoModule + "/internal/shared"
)

// applicationLibraries are the third-party packages use cases may depend on
// directly. Transport, storage and broker clients stay behind ports.
var applicationLibraries = []string{
	"github.com/cenkalti/backoff/v4",
	"github.com/hashicorp/golang-lru/v2",
	"github.com/prometheus/client_golang/prometheus",
	"golang.org/x/sync/errgroup",
	"golang.org/x/text",
}

// layerPolicy lists the service-relative layers and extra import prefixes a
// layer may use. Layers without a policy (adapters, transport, module wiring)
// are only held to the cross-service rule.
type layerPolicy struct {
	layers    []string
	shared    bool
	libraries []string
}

var policies = map[string]layerPolicy{
	"domain":      {layers: []string{"domain"}},
	"ports":       {layers: []string{"domain", "ports"}, shared: true},
	"application": {layers: []string{"application", "domain", "ports"}, shared: true, libraries: applicationLibraries},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}
	slices.SortFunc(violations, func(a, b violation) int {
		return cmp.Or(cmp.Compare(a.File, b.File), cmp.Compare(a.Line, b.Line), cmp.Compare(a.Import, b.Import))
	})
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks contexts/<context>/<service>/<layer>/... below
// root and checks every non-test Go file.
func collectViolations(root string) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(path), "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}
		service := repoModule + "/" + strings.Join(parts[:3], "/")
		violations = append(violations, checkFile(path, service, parts[3])...)
		return nil
	})
	return violations
}

func checkFile(path string, service string, layer string) []violation {
	file := filepath.ToSlash(path)
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: file, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range parsed.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		line := fset.Position(imp.Pos()).Line
		for _, rule := range importRules(importPath, service, layer) {
			violations = append(violations, violation{File: file, Line: line, Import: importPath, Rule: rule})
		}
	}
	return violations
}

// importRules returns the broken rules for one import, empty when allowed.
func importRules(importPath string, service string, layer string) []string {
	var rules []string
	if hasPrefix(importPath, repoModule+"/contexts") && !hasPrefix(importPath, service) {
		rules = append(rules, "cross-module imports are forbidden")
	}
	policy, guarded := policies[layer]
	if !guarded {
		return rules
	}
	if strings.Contains(importPath, "/adapters/") {
		rules = append(rules, layer+" must not import adapters")
	}
	if hasPrefix(importPath, repoModule+"/internal") && !hasPrefix(importPath, sharedKernel) {
		rules = append(rules, layer+" must not import runtime infrastructure")
	}
	if !isStdlib(importPath) && !policy.permits(importPath, service) {
		rules = append(rules, layer+" import is outside explicit allowlist")
	}
	return rules
}

func (p layerPolicy) permits(importPath string, service string) bool {
	for _, layer := range p.layers {
		if hasPrefix(importPath, service+"/"+layer) {
			return true
		}
	}
	if p.shared && hasPrefix(importPath, sharedKernel) {
		return true
	}
	return slices.ContainsFunc(p.libraries, func(library string) bool {
		return hasPrefix(importPath, library)
	})
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, repoModule) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
