package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type importEdge struct {
	file string
	imp  string
}

// internalImports lists every module-internal import made from a .go file
// under internal/, keyed by the importing file's slash path.
func internalImports(t *testing.T) (string, []importEdge) {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	var edges []importEdge
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, modulePath+"/") {
				continue
			}
			edges = append(edges, importEdge{
				file: filepath.ToSlash(rel),
				imp:  strings.TrimPrefix(imp, modulePath+"/"),
			})
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return modulePath, edges
}

func TestImportBoundaries(t *testing.T) {
	_, edges := internalImports(t)

	var b strings.Builder
	for _, e := range edges {
		for _, bad := range disallowedImports(layerFor(e.file)) {
			if strings.HasPrefix(e.imp, bad) {
				fmt.Fprintf(&b, "- %s imports %q (disallowed: %q)\n", e.file, e.imp, bad)
				break
			}
		}
	}
	if b.Len() > 0 {
		t.Fatal("import boundary violations:\n" + b.String())
	}
}

// Backend clients are constructed during wiring only.
func TestClientsImportedOnlyByApp(t *testing.T) {
	_, edges := internalImports(t)

	var b strings.Builder
	for _, e := range edges {
		if !strings.HasPrefix(e.imp, "internal/clients/") {
			continue
		}
		if strings.HasPrefix(e.file, "internal/app/") || strings.HasPrefix(e.file, "internal/clients/") {
			continue
		}
		fmt.Fprintf(&b, "- %s imports %q\n", e.file, e.imp)
	}
	if b.Len() > 0 {
		t.Fatal("internal/clients imports found outside internal/app:\n" + b.String())
	}
}

func layerFor(rel string) string {
	switch {
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/platform/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/modules/"):
		return "modules"
	case strings.HasPrefix(rel, "internal/data/"):
		return "data"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	case strings.HasPrefix(rel, "internal/http/"):
		return "http"
	default:
		return ""
	}
}

func disallowedImports(layer string) []string {
	switch layer {
	case "domain":
		return []string{
			"internal/platform/",
			"internal/modules/",
			"internal/data/",
			"internal/services/",
			"internal/http/",
			"internal/app",
		}
	case "platform":
		return []string{
			"internal/modules/",
			"internal/data/",
			"internal/services/",
			"internal/http/",
			"internal/app",
		}
	case "modules":
		return []string{
			"internal/data/",
			"internal/services/",
			"internal/http/",
			"internal/app",
		}
	case "data":
		return []string{
			"internal/modules/",
			"internal/services/",
			"internal/http/",
			"internal/app",
		}
	case "services":
		return []string{
			"internal/http/",
			"internal/app",
		}
	case "http":
		return []string{
			"internal/data/",
			"internal/clients/",
			"internal/app",
		}
	default:
		return nil
	}
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
