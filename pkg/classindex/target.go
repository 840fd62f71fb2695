package classindex

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"

	"github.com/vcf-sdk/classindex/pkg/classfile"
	"github.com/vcf-sdk/classindex/pkg/jarutil"
	"github.com/vcf-sdk/classindex/pkg/logutil"
)

const (
	DefaultOutputDir  = "build/generated/sources/java"
	DefaultPackage    = "com.vmware.sdk.vsphere.client.bindings"
	DefaultClassName  = "Vim25Classes"
	DefaultAnnotation = "jakarta.xml.bind.annotation.XmlType"
	DefaultPrefix     = "com.vmware.vim25."
)

// Target describes a single generated class index.
type Target struct {
	// Name is only used for logging.
	Name string `yaml:"name" logfield:"name"`

	// Archive is a local path or an s3:// URL. If it is empty, Artifact is
	// looked up on the Classpath instead.
	Archive   string           `yaml:"archive" logfield:"archive"`
	Artifact  jarutil.Artifact `yaml:"artifact" logfield:"-"`
	Classpath []string         `yaml:"classpath" logfield:"classpath"`

	// OutputDir is the source root. The file is placed in the sub directory
	// of the package.
	OutputDir string `yaml:"outputDir" logfield:"output-dir"`
	Package   string `yaml:"package" logfield:"package"`
	ClassName string `yaml:"className" logfield:"class-name"`

	// Annotation is either a type name or a descriptor.
	Annotation string `yaml:"annotation" logfield:"annotation"`
	Prefix     string `yaml:"prefix" logfield:"prefix"`

	// Stamp is an optional file that stores the fingerprint of the last
	// successful run. If set, runs with unchanged inputs are skipped.
	Stamp string `yaml:"stamp" logfield:"stamp"`
}

// DefaultTarget returns the target for the vim25 bindings.
func DefaultTarget() Target {
	return Target{
		OutputDir:  DefaultOutputDir,
		Package:    DefaultPackage,
		ClassName:  DefaultClassName,
		Annotation: DefaultAnnotation,
		Prefix:     DefaultPrefix,
	}
}

// OutputPath returns the path of the generated file.
func (t Target) OutputPath() string {
	dir := strings.ReplaceAll(t.Package, ".", string(filepath.Separator))
	return filepath.Join(t.OutputDir, dir, t.ClassName+".java")
}

// Descriptor returns the annotation as field descriptor.
func (t Target) Descriptor() string {
	return classfile.Descriptor(t.Annotation)
}

// Source returns a human readable name of the input archive.
func (t Target) Source() string {
	if t.Archive != "" {
		return t.Archive
	}
	return t.Artifact.Filename()
}

// LogFields returns the target as log fields.
func (t Target) LogFields() map[string]any {
	fields := logutil.FromStruct(t)
	if !t.Artifact.IsZero() {
		fields["artifact"] = t.Artifact.String()
	}
	return fields
}

var (
	reIdentifier = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{Nd}_$]*$`)

	javaKeywords = []string{
		"abstract", "assert", "boolean", "break", "byte", "case", "catch",
		"char", "class", "const", "continue", "default", "do", "double",
		"else", "enum", "extends", "false", "final", "finally", "float", "for",
		"goto", "if", "implements", "import", "instanceof", "int", "interface",
		"long", "native", "new", "null", "package", "private", "protected",
		"public", "return", "short", "static", "strictfp", "super", "switch",
		"synchronized", "this", "throw", "throws", "transient", "true", "try",
		"void", "volatile", "while", "_",
	}
)

func isIdentifier(s string) bool {
	return reIdentifier.MatchString(s) && !slices.Contains(javaKeywords, s)
}

// Validate checks that the target can produce a compilable source file.
func (t Target) Validate() error {
	if t.Archive == "" && t.Artifact.IsZero() {
		return errors.New("either an archive or an artifact is required")
	}
	if t.Archive == "" && (t.Artifact.Name == "" || t.Artifact.Version == "") {
		return errors.Errorf("artifact %s needs a name and a version", t.Artifact)
	}
	if t.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if t.Package == "" {
		return errors.New("package must not be empty")
	}
	for _, part := range strings.Split(t.Package, ".") {
		if !isIdentifier(part) {
			return errors.Errorf("invalid package name %q", t.Package)
		}
	}
	if !isIdentifier(t.ClassName) {
		return errors.Errorf("invalid class name %q", t.ClassName)
	}
	if t.Descriptor() == "" {
		return errors.New("annotation must not be empty")
	}

	return nil
}

// Config is the content of a configuration file.
type Config struct {
	Targets []Target `yaml:"targets"`
}

// LoadConfig reads a YAML configuration file. Relative paths in the file are
// interpreted relative to the directory of the file. Empty output directories
// and annotations are set to their defaults.
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config")
	}
	defer f.Close()

	config := new(Config)
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode config %s", filename)
	}

	if len(config.Targets) == 0 {
		return nil, errors.Errorf("config %s does not define any targets", filename)
	}

	base := filepath.Dir(filename)
	rel := func(p string) string {
		if p == "" || filepath.IsAbs(p) || jarutil.IsRemote(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	for i := range config.Targets {
		t := &config.Targets[i]

		if t.OutputDir == "" {
			t.OutputDir = DefaultOutputDir
		}
		if t.Annotation == "" {
			t.Annotation = DefaultAnnotation
		}

		t.Archive = rel(t.Archive)
		t.OutputDir = rel(t.OutputDir)
		t.Stamp = rel(t.Stamp)
		for j := range t.Classpath {
			t.Classpath[j] = rel(t.Classpath[j])
		}

		if err := t.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid target #%d in %s", i+1, filename)
		}
	}

	return config, nil
}
