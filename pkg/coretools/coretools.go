// Package coretools provides the baseline tools a saku runtime
// registers: shell execution and simple filesystem access, each with a
// declared parameter schema.
package coretools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/harun/saku/pkg/schema"
	"github.com/harun/saku/pkg/tool"
)

// Options configures core tool registration.
type Options struct {
	WorkspaceRoot       string
	RestrictToWorkspace bool
	ExecTimeout         time.Duration
}

// RegisterCoreTools registers the baseline runtime and filesystem tools.
func RegisterCoreTools(reg *tool.Registry, opts Options) error {
	if reg == nil {
		return errors.New("tool registry is required")
	}
	if opts.WorkspaceRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve workspace root: %w", err)
		}
		opts.WorkspaceRoot = cwd
	}
	if opts.ExecTimeout <= 0 {
		opts.ExecTimeout = 30 * time.Second
	}

	reg.Register(&ExecTool{opts: opts})
	reg.Register(&ReadFileTool{opts: opts})
	reg.Register(&WriteFileTool{opts: opts})
	reg.Register(&ListDirTool{opts: opts})
	return nil
}

// ExecTool runs a shell command inside the workspace.
type ExecTool struct {
	opts Options
}

func (t *ExecTool) Name() string { return "exec" }

func (t *ExecTool) Description() string {
	return "Execute a command in the workspace and return its combined output."
}

func (t *ExecTool) Parameters() *schema.Object {
	return &schema.Object{
		Properties: map[string]schema.Node{
			"command": &schema.String{MinLength: schema.IntPtr(1)},
			"args":    &schema.Array{Items: &schema.String{}},
			"cwd":     &schema.String{},
			"timeout": &schema.Number{Minimum: schema.FloatPtr(0)},
		},
		Required: []string{"command"},
	}
}

func (t *ExecTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	command, _ := args["command"].(string)
	command = strings.TrimSpace(command)
	if command == "" {
		return "", errors.New("command is required")
	}

	cwd, err := resolvePath(t.opts, args["cwd"])
	if err != nil {
		return "", err
	}

	timeout := t.opts.ExecTimeout
	if seconds, ok := numericArg(args["timeout"]); ok && seconds > 0 {
		timeout = time.Duration(seconds * float64(time.Second))
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, command, stringSlice(args["args"])...)
	cmd.Dir = cwd

	out, err := cmd.CombinedOutput()
	if execCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("command timed out after %v", timeout)
	}
	if err != nil {
		return "", fmt.Errorf("%w\n%s", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// ReadFileTool reads a file from the workspace.
type ReadFileTool struct {
	opts Options
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read a file and return its content, optionally limited to the first max_lines lines."
}

func (t *ReadFileTool) Parameters() *schema.Object {
	return &schema.Object{
		Properties: map[string]schema.Node{
			"path":      &schema.String{MinLength: schema.IntPtr(1)},
			"max_lines": &schema.Integer{Minimum: schema.FloatPtr(1)},
		},
		Required: []string{"path"},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	path, err := resolvePath(t.opts, args["path"])
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)
	if maxLines, ok := numericArg(args["max_lines"]); ok {
		lines := strings.Split(content, "\n")
		if n := int(maxLines); n < len(lines) {
			content = strings.Join(lines[:n], "\n")
		}
	}
	return content, nil
}

// WriteFileTool writes a file inside the workspace, creating parent
// directories as needed.
type WriteFileTool struct {
	opts Options
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Write content to a file, creating parent directories as needed."
}

func (t *WriteFileTool) Parameters() *schema.Object {
	return &schema.Object{
		Properties: map[string]schema.Node{
			"path":    &schema.String{MinLength: schema.IntPtr(1)},
			"content": &schema.String{},
		},
		Required: []string{"path", "content"},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	path, err := resolvePath(t.opts, args["path"])
	if err != nil {
		return "", err
	}
	content, _ := args["content"].(string)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("wrote %d bytes to %s", len(content), path), nil
}

// ListDirTool lists directory entries inside the workspace.
type ListDirTool struct {
	opts Options
}

func (t *ListDirTool) Name() string { return "list_dir" }

func (t *ListDirTool) Description() string {
	return "List the entries of a directory, directories suffixed with a slash."
}

func (t *ListDirTool) Parameters() *schema.Object {
	return &schema.Object{
		Properties: map[string]schema.Node{
			"path": &schema.String{},
		},
	}
}

func (t *ListDirTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	path, err := resolvePath(t.opts, args["path"])
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

// resolvePath resolves raw relative to the workspace root. When
// RestrictToWorkspace is set, paths escaping the root are rejected.
func resolvePath(opts Options, raw any) (string, error) {
	rel, _ := raw.(string)
	path := rel
	if path == "" {
		path = "."
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.WorkspaceRoot, path)
	}
	path = filepath.Clean(path)

	if opts.RestrictToWorkspace {
		root := filepath.Clean(opts.WorkspaceRoot)
		if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
			return "", fmt.Errorf("path escapes workspace: %s", rel)
		}
	}
	return path, nil
}

func stringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func numericArg(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
