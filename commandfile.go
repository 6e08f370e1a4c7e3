package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// CommandFile is the TOML-driven load-commands collaborator spec.md §6
// names as out-of-scope ("load-commands(path) → [SourceDescriptor,
// options]", opaque to the core). Shape follows the teacher's
// MigrationConfig/config.go: a root-level options block plus nested
// source/target/hooks tables, decoded with the teacher's own
// github.com/BurntSushi/toml.
type CommandFile struct {
	Target  TargetSpec   `toml:"target"`
	Sources []SourceSpec `toml:"source"`

	RootDir     string `toml:"root_dir"`
	SummaryPath string `toml:"summary_path"`
	Encoding    string `toml:"encoding"` // DBF code-page override, e.g. "cp850"; empty uses the header byte

	DataOnly       bool `toml:"data_only"`
	SchemaOnly     bool `toml:"schema_only"`
	Truncate       bool `toml:"truncate"`
	CreateTables   bool `toml:"create_tables"`
	CreateIndexes  bool `toml:"create_indexes"`
	IncludeDrop    bool `toml:"include_drop"`
	ResetSequences bool `toml:"reset_sequences"`

	OnlyTables []string `toml:"only_tables"`
	Including  []string `toml:"including"`
	Excluding  []string `toml:"excluding"`

	Hooks HooksConfig `toml:"hooks"`
	Debug bool        `toml:"debug"`

	// dir is the directory containing the TOML file, used to resolve
	// relative source paths and hook SQL file paths.
	dir string
}

// SourceSpec names one DBF file or one SQLite table the orchestrator will
// copy. Table is required for kind "sqlite"; for kind "dbf" it defaults to
// the file's base name (extension stripped) when left blank.
type SourceSpec struct {
	Kind       string `toml:"kind"` // "dbf" or "sqlite"
	Path       string `toml:"path"`
	Table      string `toml:"table"`       // SQLite table name; DBF override name
	TargetName string `toml:"target_name"` // PostgreSQL table name override
}

type TargetSpec struct {
	DSN string `toml:"dsn"`
}

// HooksConfig names the before-data/after-data SQL files spec.md §6's
// root-dir collaborator resolves relative to the command file. The DBF/
// SQLite sources carry no foreign-key metadata, so the teacher's
// before_fk/after_all phases (post.go's FK/trigger recreation) have no
// SPEC_FULL.md operation to attach to and are dropped here.
type HooksConfig struct {
	BeforeData []string `toml:"before_data"`
	AfterData  []string `toml:"after_data"`
}

// loadCommandFile reads and validates a TOML command file, applying the
// same fail-fast approach as the teacher's loadConfig: unknown keys reject
// the whole file rather than silently ignoring a typo.
func loadCommandFile(path string) (*CommandFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command file: %w", err)
	}

	cf := CommandFile{RootDir: "."}
	md, err := toml.Decode(string(data), &cf)
	if err != nil {
		return nil, fmt.Errorf("parse command file: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown command file keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve command file path: %w", err)
	}
	cf.dir = filepath.Dir(absPath)

	if cf.Target.DSN == "" {
		return nil, fmt.Errorf("target.dsn is required")
	}
	if len(cf.Sources) == 0 {
		return nil, fmt.Errorf("at least one [[source]] entry is required")
	}
	if cf.DataOnly && cf.SchemaOnly {
		return nil, fmt.Errorf("data_only and schema_only are mutually exclusive")
	}

	for i := range cf.Sources {
		s := &cf.Sources[i]
		switch s.Kind {
		case "dbf":
			if s.Table == "" {
				s.Table = sqliteDBNameFromPath(s.Path)
			}
		case "sqlite":
			if s.Table == "" {
				return nil, fmt.Errorf("source[%d]: table is required for kind \"sqlite\"", i)
			}
		case "":
			return nil, fmt.Errorf("source[%d]: kind is required (dbf or sqlite)", i)
		default:
			return nil, fmt.Errorf("source[%d]: unsupported kind %q (must be dbf or sqlite)", i, s.Kind)
		}
		if s.Path == "" {
			return nil, fmt.Errorf("source[%d]: path is required", i)
		}
		if !filepath.IsAbs(s.Path) {
			s.Path = filepath.Join(cf.dir, s.Path)
		}
		if s.TargetName == "" {
			s.TargetName = toSnakeCase(s.Table)
		}
	}

	cf.RootDir = cf.resolvePath(cf.RootDir)
	if err := os.MkdirAll(cf.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create root_dir %s: %w", cf.RootDir, err)
	}

	return &cf, nil
}

// resolvePath resolves a path relative to the command file's directory,
// mirroring the teacher's MigrationConfig.resolvePath.
func (c *CommandFile) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// resolveEncoding maps the optional encoding override to a codec, falling
// back to the DBF header's own language-driver byte when left blank.
func (c *CommandFile) resolveEncoding() (encoding.Encoding, error) {
	if c.Encoding == "" {
		return nil, nil
	}
	switch strings.ToLower(c.Encoding) {
	case "cp850", "ibm850":
		return charmap.CodePage850, nil
	case "cp437", "ibm437":
		return charmap.CodePage437, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-8", "utf8":
		return encoding.Nop, nil
	default:
		return nil, fmt.Errorf("unsupported encoding override %q", c.Encoding)
	}
}
