// Package plugin discovers and runs daterange-* executables. A plugin acts as a
// fallback date extractor: it is invoked as
//
//	daterange-<name> --ref YYYY-MM-DD <text>
//
// and prints zero or more YYYY-MM-DD dates, one per line.
package plugin

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/njt/daterange/internal/dateparse"
	"github.com/njt/daterange/libdaterange"
)

// Prefix is the executable name prefix that marks a plugin.
const Prefix = "daterange-"

// FindPlugin looks for a daterange-* plugin in the PATH
func FindPlugin(name string) (string, error) {
	pluginName := Prefix + name
	path, err := exec.LookPath(pluginName)
	if err != nil {
		return "", fmt.Errorf("plugin '%s' not found in PATH", pluginName)
	}
	return path, nil
}

// ExecutePlugin runs a daterange-* plugin with the given arguments and returns its stdout
func ExecutePlugin(ctx context.Context, name string, args []string) ([]byte, error) {
	pluginPath, err := FindPlugin(name)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, pluginPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("plugin %s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// ListPlugins returns the sorted names of available daterange-* plugins in PATH
func ListPlugins() ([]string, error) {
	pathEnv := os.Getenv("PATH")
	if pathEnv == "" {
		return nil, nil
	}

	paths := strings.Split(pathEnv, string(os.PathListSeparator))
	plugins := make(map[string]bool)

	for _, dir := range paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, Prefix) || entry.IsDir() {
				continue
			}
			// Stat the full path so symlinked plugins report their target's mode
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || info.IsDir() {
				continue
			}
			// Check if file is executable
			if info.Mode()&0111 != 0 {
				plugins[strings.TrimPrefix(name, Prefix)] = true
			}
		}
	}

	result := make([]string, 0, len(plugins))
	for plugin := range plugins {
		result = append(result, plugin)
	}
	sort.Strings(result)

	return result, nil
}

// Extractor delegates date extraction to a plugin.
type Extractor struct {
	Name    string
	Timeout time.Duration
}

var _ libdaterange.Extractor = (*Extractor)(nil)

// Extract runs the plugin on text and parses the dates it prints.
func (e *Extractor) Extract(text string, ref time.Time) ([]time.Time, error) {
	ctx := context.Background()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	out, err := ExecutePlugin(ctx, e.Name, []string{"--ref", dateparse.FormatDate(ref), text})
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t, err := time.ParseInLocation(dateparse.DateLayout, line, ref.Location())
		if err != nil {
			return nil, fmt.Errorf("plugin %s printed invalid date %q: %w", e.Name, line, err)
		}
		dates = append(dates, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plugin output: %w", err)
	}
	if len(dates) == 0 {
		return nil, libdaterange.ErrNoDate
	}
	return dates, nil
}
