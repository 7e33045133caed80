// Package scan reads the line-oriented tunnel report format:
//
//	Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
//	Valve HH has flow rate=22; tunnel leads to valve GG
package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/releaseplan/internal/config"
	"github.com/specialistvlad/releaseplan/internal/ctxlog"
	"github.com/specialistvlad/releaseplan/internal/graph"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("scan: syntax error")

// lineRegex matches one report line; the tunnel list may be empty.
var lineRegex = regexp.MustCompile(
	`^Valve ([A-Za-z0-9_]+) has flow rate=(-?\d+); tunnels? leads? to valves?\s*(.*)$`,
)

// Parse reads records from r. Blank lines are skipped. Rates are returned as
// written; validation of their sign is left to graph.Build.
func Parse(r io.Reader) ([]graph.Record, error) {
	var records []graph.Record
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		matches := lineRegex.FindStringSubmatch(line)
		if matches == nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrSyntax, lineNo, line)
		}

		rate, err := strconv.Atoi(matches[2])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: rate %q: %v", ErrSyntax, lineNo, matches[2], err)
		}

		var tunnels []string
		if list := strings.TrimSpace(matches[3]); list != "" {
			for _, name := range strings.Split(list, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					return nil, fmt.Errorf("%w: line %d: empty tunnel name", ErrSyntax, lineNo)
				}
				tunnels = append(tunnels, name)
			}
		}

		records = append(records, graph.Record{Name: matches[1], Rate: rate, Tunnels: tunnels})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return records, nil
}

// Loader is the line-format implementation of config.Loader.
type Loader struct{}

// NewLoader creates a line-format loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the report at path. The format declares no scenario.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Line-format loader started.", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("Line-format loading complete.", "nodes", len(records))
	return &config.Model{Source: path, Nodes: records}, nil
}
