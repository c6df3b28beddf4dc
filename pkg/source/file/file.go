// Package file loads a task set from a single JSON, TOML or HCL file.
//
// The format is chosen by extension:
//
//	tasks.json   [{"id": 1, "dependencies": "Ninguna"}, ...]  or  {"tasks": [...]}
//	tasks.toml   [[tasks]] tables
//	tasks.hcl    task "1" { ... } blocks
//
// A file holds one task set, so the project argument of Load is ignored.
package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// Format names a task file encoding.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
	HCL  Format = "hcl"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, TOML, HCL}

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	case ".hcl":
		return HCL, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported task file %q (want .json, .toml or .hcl)", filepath.Base(path))
}

// Provider reads tasks from a file on every Load, so edits are picked up
// without restarting.
type Provider struct {
	path   string
	format Format
}

// New returns a provider for the task file at path.
func New(path string) (*Provider, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return &Provider{path: path, format: format}, nil
}

// Name returns "file".
func (p *Provider) Name() string { return "file" }

// Path returns the task file path.
func (p *Provider) Path() string { return p.path }

// Load reads and decodes the task file.
func (p *Provider) Load(ctx context.Context, _ string) ([]tasks.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "task file %s not found", p.path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", p.path)
	}
	return Decode(p.format, p.path, data)
}

// Close does nothing.
func (p *Provider) Close() error { return nil }

// Decode parses data in the given format. filename is used in diagnostics.
// Decoding failures are INVALID_FORMAT errors.
func Decode(format Format, filename string, data []byte) ([]tasks.Task, error) {
	var (
		ts  []tasks.Task
		err error
	)
	switch format {
	case JSON:
		ts, err = tasks.DecodeJSON(bytes.NewReader(data))
	case TOML:
		ts, err = decodeTOML(data)
	case HCL:
		ts, err = decodeHCL(filename, data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown task file format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", filename)
	}
	if ts == nil {
		ts = []tasks.Task{}
	}
	return ts, nil
}

var _ source.Provider = (*Provider)(nil)
