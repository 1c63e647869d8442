package annotate

import (
	"context"
	"log/slog"

	"github.com/cmmoran/apitypegen/pkg/codegen"
)

// Generate loads opts.InFile, annotates it and writes the output document.
// It returns the generator and the written path.
func Generate(ctx context.Context, opts *codegen.Options) (*codegen.Generator, string, error) {
	g, err := codegen.NewWithOpts(opts)
	if err != nil {
		return nil, "", err
	}
	if err = g.Load(ctx); err != nil {
		return nil, "", err
	}
	outFile, err := write(g)
	if err != nil {
		return nil, "", err
	}
	return g, outFile, nil
}

// write annotates the loaded schema and writes it. Nothing is written when
// annotation fails.
func write(g *codegen.Generator) (string, error) {
	if err := g.Annotate(); err != nil {
		return "", err
	}
	outFile, err := g.WriteFile()
	if err != nil {
		return "", err
	}
	slog.Info("wrote annotated types",
		"file", outFile,
		"models", len(g.Schema.Models),
		"operations", len(g.Schema.Operations),
	)
	return outFile, nil
}
