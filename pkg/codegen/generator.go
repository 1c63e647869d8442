// Package codegen drives a generation run: it loads an OpenAPI document,
// resolves and annotates every model and operation, and renders the
// annotated descriptors as a YAML document for the template layer.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/apitypegen/internal/loader"
	"github.com/cmmoran/apitypegen/internal/model"
	"github.com/cmmoran/apitypegen/internal/naming"
	"github.com/cmmoran/apitypegen/internal/resolve"
)

var ErrNotAnnotated = errors.New("schema not annotated")

// Generator holds state/results of a generation run.
type Generator struct {
	Opts Options

	Schema   *model.Schema
	pipeline *resolve.Pipeline
}

// New creates a generator from the defaults with opts applied.
func New(opts ...Option) (*Generator, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Generator, error) {
	if opts == nil {
		return nil, errors.New("nil options")
	}
	opts.Normalize()

	return &Generator{Opts: *opts}, nil
}

// Load reads Opts.InFile.
func (g *Generator) Load(ctx context.Context) error {
	s, err := loader.LoadFile(ctx, g.Opts.InFile, g.loaderOptions()...)
	if err != nil {
		return err
	}
	g.SetSchema(s)
	return nil
}

// LoadData parses an in-memory document.
func (g *Generator) LoadData(ctx context.Context, data []byte) error {
	s, err := loader.Load(ctx, data, g.loaderOptions()...)
	if err != nil {
		return err
	}
	g.SetSchema(s)
	return nil
}

// SetSchema replaces the schema and discards any earlier annotation.
func (g *Generator) SetSchema(s *model.Schema) {
	g.Schema = s
	g.pipeline = nil
}

func (g *Generator) loaderOptions() []loader.Option {
	if g.Opts.SkipValidation {
		return []loader.Option{loader.WithoutValidation()}
	}
	return nil
}

// Annotate resolves every type of the loaded schema. On error the schema is
// left as loaded.
func (g *Generator) Annotate() error {
	if g.Schema == nil {
		return fmt.Errorf("annotate: %w", loader.ErrNoDocument)
	}
	p, err := resolve.Run(g.Schema, naming.New(g.Opts.VendorName, g.Opts.ReservedWordMappings), resolve.Config{
		LegacyTypeHintSupport: g.Opts.LegacyTypeHintSupport,
		ModelPackage:          g.Opts.ModelPackage,
		Parallel:              g.Opts.Parallel,
	})
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}
	g.pipeline = p
	slog.Debug("generator annotated schema", "in", g.Opts.InFile, "models", len(g.Schema.Models))
	return nil
}

// Run loads Opts.InFile and annotates it.
func (g *Generator) Run(ctx context.Context) error {
	if err := g.Load(ctx); err != nil {
		return err
	}
	return g.Annotate()
}

// Document assembles the output document from the annotated schema.
func (g *Generator) Document() (*Document, error) {
	if g.pipeline == nil {
		return nil, ErrNotAnnotated
	}
	reg := g.pipeline.Registry()
	return &Document{
		HideGenerationTimestamp: g.Opts.HideGenerationTimestamp,
		LegacyTypeHintSupport:   g.pipeline.Policy().Legacy(),
		ModelPackage:            reg.ModelPackage(),
		VendorName:              g.Opts.VendorName,
		LanguagePrimitives:      reg.LanguagePrimitives(),
		Groups:                  groups(g.Schema.Operations),
		Models:                  g.Schema.Models,
		Operations:              g.Schema.Operations,
	}, nil
}

// Render writes the output document as YAML.
func (g *Generator) Render(w io.Writer) error {
	doc, err := g.Document()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return enc.Close()
}

// WriteFile renders into Opts.OutDir/Opts.OutFile and returns the path.
func (g *Generator) WriteFile() (string, error) {
	outFile := g.Opts.OutPath()
	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open output file: %w", err)
	}
	if err = g.Render(f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}
	return outFile, nil
}
