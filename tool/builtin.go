package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// maxFileOutput bounds the observation size produced by read_file so a single
// large file cannot blow up the model transcript.
const maxFileOutput = 5000

// Builtins returns the standard tool set registered by default: calculator,
// file access, directory listing, clock, a web search stub and basic text
// analysis. Callers can register any subset instead.
func Builtins() []Tool {
	return []Tool{
		NewCalculator(),
		NewReadFile(),
		NewWriteFile(),
		NewListDirectory(),
		NewDatetime(),
		NewWebSearch(),
		NewTextAnalysis(),
	}
}

// NewCalculator returns a tool evaluating mathematical expressions inside a
// sandboxed Lua state. Only the math library is opened, so expressions cannot
// touch the filesystem, network or process environment. Math functions and
// constants are aliased as globals, allowing "sqrt(16)" instead of
// "math.sqrt(16)".
func NewCalculator() Tool {
	return NewFuncTool(
		"calculator",
		"Calculate mathematical expressions. Supports +, -, *, /, sqrt, sin, cos, etc.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "Math expression to evaluate, e.g., '2 + 2' or 'sqrt(16)'",
				},
			},
			"required": []string{"expression"},
		},
		func(_ context.Context, args map[string]string) (string, error) {
			expr := strings.TrimSpace(args["expression"])
			if expr == "" {
				return "", fmt.Errorf("expression is required")
			}
			return evalExpression(expr)
		},
	)
}

// evalExpression runs "return <expr>" in a fresh restricted Lua state.
func evalExpression(expr string) (string, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer state.Close()

	if err := state.CallByParam(lua.P{
		Fn:      state.NewFunction(lua.OpenMath),
		NRet:    0,
		Protect: true,
	}, lua.LString(lua.MathLibName)); err != nil {
		return "", fmt.Errorf("open math library: %w", err)
	}

	if mathTbl, ok := state.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		mathTbl.ForEach(func(k, v lua.LValue) {
			state.SetGlobal(k.String(), v)
		})
	}

	if err := state.DoString("return " + expr); err != nil {
		return "", fmt.Errorf("invalid expression %q: %v", expr, err)
	}

	ret := state.Get(-1)
	num, ok := ret.(lua.LNumber)
	if !ok {
		return "", fmt.Errorf("expression %q did not evaluate to a number", expr)
	}

	return fmt.Sprintf("%s = %s", expr, strconv.FormatFloat(float64(num), 'g', -1, 64)), nil
}

// NewReadFile returns a tool reading a file's contents, truncated to
// maxFileOutput characters.
func NewReadFile() Tool {
	return NewFuncTool(
		"read_file",
		"Read the contents of a file",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"filepath": map[string]any{
					"type":        "string",
					"description": "Path to the file to read",
				},
			},
			"required": []string{"filepath"},
		},
		func(_ context.Context, args map[string]string) (string, error) {
			path := args["filepath"]
			if path == "" {
				return "", fmt.Errorf("filepath is required")
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", path, err)
			}

			content := string(data)
			if len(content) > maxFileOutput {
				content = content[:maxFileOutput] + "\n... (truncated)"
			}

			return content, nil
		},
	)
}

// NewWriteFile returns a tool writing content to a file, creating parent
// directories as needed.
func NewWriteFile() Tool {
	return NewFuncTool(
		"write_file",
		"Write content to a file",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"filepath": map[string]any{
					"type":        "string",
					"description": "Path to the file to write",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "Content to write to the file",
				},
			},
			"required": []string{"filepath", "content"},
		},
		func(_ context.Context, args map[string]string) (string, error) {
			path := args["filepath"]
			if path == "" {
				return "", fmt.Errorf("filepath is required")
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return "", fmt.Errorf("create directory %s: %w", dir, err)
				}
			}

			content := args["content"]
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return "", fmt.Errorf("write %s: %w", path, err)
			}

			return fmt.Sprintf("Successfully wrote %d characters to %s", len(content), path), nil
		},
	)
}

// NewListDirectory returns a tool listing directory contents, folders first.
func NewListDirectory() Tool {
	return NewFuncTool(
		"list_directory",
		"List files and folders in a directory",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Directory path to list",
				},
			},
			"required": []string{},
		},
		func(_ context.Context, args map[string]string) (string, error) {
			path := args["path"]
			if path == "" {
				path = "."
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return "", fmt.Errorf("list %s: %w", path, err)
			}
			if len(entries) == 0 {
				return fmt.Sprintf("Directory '%s' is empty", path), nil
			}

			var dirs, files []string
			for _, entry := range entries {
				if entry.IsDir() {
					dirs = append(dirs, fmt.Sprintf("  [DIR]  %s/", entry.Name()))
					continue
				}
				var size int64
				if info, err := entry.Info(); err == nil {
					size = info.Size()
				}
				files = append(files, fmt.Sprintf("  [FILE] %s (%d bytes)", entry.Name(), size))
			}

			return fmt.Sprintf("Contents of '%s':\n%s", path, strings.Join(append(dirs, files...), "\n")), nil
		},
	)
}

// NewDatetime returns a tool reporting the current local date and time.
func NewDatetime() Tool {
	return NewFuncTool(
		"get_datetime",
		"Get current date and time",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
		func(_ context.Context, _ map[string]string) (string, error) {
			return time.Now().Format("2006-01-02 15:04:05"), nil
		},
	)
}

// NewWebSearch returns a placeholder search tool. Hosts wire a real search
// backend by registering their own tool under the same name.
func NewWebSearch() Tool {
	return NewFuncTool(
		"web_search",
		"Search the web for information",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []string{"query"},
		},
		func(_ context.Context, args map[string]string) (string, error) {
			return fmt.Sprintf(
				"Search results for '%s':\nNote: web search requires a backend. Register a tool named web_search backed by your search API.",
				args["query"],
			), nil
		},
	)
}

// NewTextAnalysis returns a tool computing basic text statistics.
func NewTextAnalysis() Tool {
	return NewFuncTool(
		"text_analysis",
		"Analyze text - count words, characters, lines",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Text to analyze",
				},
			},
			"required": []string{"text"},
		},
		func(_ context.Context, args map[string]string) (string, error) {
			text := args["text"]
			words := strings.Fields(text)
			lines := strings.Split(text, "\n")

			var totalLen int
			for _, w := range words {
				totalLen += len(w)
			}
			avg := 0.0
			if len(words) > 0 {
				avg = float64(totalLen) / float64(len(words))
			}

			return fmt.Sprintf(
				"Text Analysis:\n  Characters: %d\n  Words: %d\n  Lines: %d\n  Avg word length: %.1f",
				len(text), len(words), len(lines), avg,
			), nil
		},
	)
}
