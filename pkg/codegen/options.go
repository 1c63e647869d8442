package codegen

import (
	"path/filepath"
	"strings"

	"github.com/cmmoran/apitypegen/internal/naming"
	"github.com/cmmoran/apitypegen/internal/resolve"
)

// Options control loading, annotation and output.
//
// InFile                  – OpenAPI 3 document to read (YAML or JSON)
// OutDir                  – output directory
// OutFile                 – output filename
// LegacyTypeHintSupport   – only array may be emitted as a native type hint (default true)
// HideGenerationTimestamp – forwarded verbatim into the output document (default true)
// ModelPackage            – namespace segment model classes are qualified with (default core)
// VendorName              – vendor used in service identifiers (default swagger)
// Parallel                – annotate models and operation groups concurrently
// SkipValidation          – do not validate the document after parsing
// ReservedWordMappings    – replacement names for reserved words, instead of the "_" prefix
type Options struct {
	InFile                  string            `json:"inFile,omitempty" yaml:"inFile,omitempty" toml:"inFile,omitempty" mapstructure:"inFile,omitempty"`
	OutDir                  string            `json:"outDir,omitempty" yaml:"outDir,omitempty" toml:"outDir,omitempty" mapstructure:"outDir,omitempty"`
	OutFile                 string            `json:"outFile,omitempty" yaml:"outFile,omitempty" toml:"outFile,omitempty" mapstructure:"outFile,omitempty"`
	LegacyTypeHintSupport   bool              `json:"legacyTypeHintSupport" yaml:"legacyTypeHintSupport" toml:"legacyTypeHintSupport" mapstructure:"legacyTypeHintSupport"`
	HideGenerationTimestamp bool              `json:"hideGenerationTimestamp" yaml:"hideGenerationTimestamp" toml:"hideGenerationTimestamp" mapstructure:"hideGenerationTimestamp"`
	ModelPackage            string            `json:"modelPackage,omitempty" yaml:"modelPackage,omitempty" toml:"modelPackage,omitempty" mapstructure:"modelPackage,omitempty"`
	VendorName              string            `json:"composerVendorName,omitempty" yaml:"composerVendorName,omitempty" toml:"composerVendorName,omitempty" mapstructure:"composerVendorName,omitempty"`
	Parallel                bool              `json:"parallel,omitempty" yaml:"parallel,omitempty" toml:"parallel,omitempty" mapstructure:"parallel,omitempty"`
	SkipValidation          bool              `json:"skipValidation,omitempty" yaml:"skipValidation,omitempty" toml:"skipValidation,omitempty" mapstructure:"skipValidation,omitempty"`
	ReservedWordMappings    map[string]string `json:"reservedWordMappings,omitempty" yaml:"reservedWordMappings,omitempty" toml:"reservedWordMappings,omitempty" mapstructure:"reservedWordMappings,omitempty"`
}

const (
	DefaultInFile  = "openapi.yaml"
	DefaultOutDir  = "api"
	DefaultOutFile = "types_gen.yaml"
)

func NewOptions() *Options {
	return &Options{
		InFile:                  DefaultInFile,
		OutDir:                  DefaultOutDir,
		OutFile:                 DefaultOutFile,
		LegacyTypeHintSupport:   true,
		HideGenerationTimestamp: true,
		ModelPackage:            resolve.DefaultModelPackage,
		VendorName:              naming.DefaultVendor,
	}
}

// Normalize fills empty fields with their defaults and makes relative
// paths absolute.
func (o *Options) Normalize() {
	if len(o.InFile) == 0 {
		o.InFile = DefaultInFile
	}
	if strings.Contains(o.InFile, ".") {
		o.InFile, _ = filepath.Abs(o.InFile)
	}
	if len(o.OutDir) == 0 {
		o.OutDir = DefaultOutDir
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if len(o.OutFile) == 0 {
		o.OutFile = DefaultOutFile
	}
	o.ModelPackage = strings.Trim(o.ModelPackage, `\`)
	if len(o.ModelPackage) == 0 {
		o.ModelPackage = resolve.DefaultModelPackage
	}
	if len(o.VendorName) == 0 {
		o.VendorName = naming.DefaultVendor
	}
}

// OutPath is the cleaned output file path.
func (o *Options) OutPath() string {
	return filepath.Clean(filepath.Join(o.OutDir, o.OutFile))
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInFile(f string) Option  { return func(o *Options) { o.InFile = f } }
func WithOutDir(d string) Option  { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option { return func(o *Options) { o.OutFile = f } }
func WithLegacyTypeHintSupport(b bool) Option {
	return func(o *Options) { o.LegacyTypeHintSupport = b }
}
func WithHideGenerationTimestamp(b bool) Option {
	return func(o *Options) { o.HideGenerationTimestamp = b }
}
func WithModelPackage(p string) Option { return func(o *Options) { o.ModelPackage = p } }
func WithVendorName(v string) Option   { return func(o *Options) { o.VendorName = v } }
func WithParallel() Option             { return func(o *Options) { o.Parallel = true } }
func WithSkipValidation() Option       { return func(o *Options) { o.SkipValidation = true } }
func WithReservedWordMapping(word, replacement string) Option {
	return func(o *Options) {
		if o.ReservedWordMappings == nil {
			o.ReservedWordMappings = make(map[string]string)
		}
		o.ReservedWordMappings[word] = replacement
	}
}
