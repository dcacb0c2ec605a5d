package lint

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var codeExtensions = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".cpp":   "cpp",
	".c":     "c",
	".rb":    "ruby",
	".go":    "go",
	".rs":    "rust",
	".php":   "php",
	".cs":    "csharp",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
}

var configExtensions = map[string]string{
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".xml":  "xml",
	".ini":  "ini",
}

// FileType classifies a path for linter selection: a language name, a config
// format, "test", "log", or "unknown".
func FileType(path string) string {
	suffix := strings.ToLower(filepath.Ext(path))

	if t, ok := codeExtensions[suffix]; ok {
		return t
	}
	if t, ok := configExtensions[suffix]; ok {
		return t
	}

	name := strings.ToLower(filepath.Base(path))
	for _, pattern := range []string{"test", "spec", "__tests__"} {
		if strings.Contains(name, pattern) {
			return "test"
		}
	}
	if suffix == ".log" || suffix == ".out" || suffix == ".err" {
		return "log"
	}
	return "unknown"
}

// Command picks a linter invocation for a file type, preferring pylint or
// eslint when installed and falling back to basic syntax checks. Returns nil
// when no linter applies.
func Command(fileType, path string) []string {
	preferred := map[string][]string{
		"python":     {"pylint", "--output-format=json", path},
		"javascript": {"eslint", "--format=json", path},
		"typescript": {"eslint", "--format=json", path},
	}
	if cmd, ok := preferred[fileType]; ok {
		if _, err := exec.LookPath(cmd[0]); err == nil {
			return cmd
		}
	}

	fallback := map[string][]string{
		"python":     {"python", "-m", "py_compile", path},
		"javascript": {"node", "--check", path},
		"typescript": {"npx", "tsc", "--noEmit", path},
		"json":       {"python", "-m", "json.tool", path},
		"yaml":       {"python", "-c", fmt.Sprintf(`import yaml; yaml.safe_load(open(%q))`, path)},
	}
	return fallback[fileType]
}
