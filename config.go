package sheldon

// This file defines the in-memory shape a manifest parser must produce.
// The locking and rendering pipeline consumes an already-populated Config;
// reading plugins.toml into one is done separately, by ParseManifest
// (manifest.go).

// SourceKind discriminates the tagged Source variants.
type SourceKind int

const (
	// SourceGit clones a git repository, optionally pinned to a reference.
	SourceGit SourceKind = iota
	// SourceRemote downloads a single file over HTTP.
	SourceRemote
	// SourceLocal points at an existing local directory.
	SourceLocal
)

// GitReferenceKind discriminates the tagged GitReference variants.
type GitReferenceKind int

const (
	// ReferenceBranch pins to the tip of a local branch.
	ReferenceBranch GitReferenceKind = iota
	// ReferenceTag pins to an annotated or lightweight tag.
	ReferenceTag
	// ReferenceRevision pins to an arbitrary revision spec (a commit hash
	// prefix, a tag name, or anything else git-rev-parse understands).
	ReferenceRevision
)

// GitReference is a symbolic pin that resolves to exactly one commit at
// lock time. Exactly one of Branch/Tag/Revision is meaningful, selected by
// Kind.
type GitReference struct {
	Kind  GitReferenceKind
	Value string
}

// Branch constructs a branch GitReference.
func Branch(name string) GitReference { return GitReference{Kind: ReferenceBranch, Value: name} }

// Tag constructs a tag GitReference.
func Tag(name string) GitReference { return GitReference{Kind: ReferenceTag, Value: name} }

// Revision constructs a revision-spec GitReference.
func Revision(spec string) GitReference { return GitReference{Kind: ReferenceRevision, Value: spec} }

// Source describes where a plugin's files come from. Source values are
// compared by the (Kind, URL, Reference, Directory) tuple for
// deduplication purposes (spec.md §4.4 step 1), so two plugins that
// configure an identical Source share one installation.
type Source struct {
	Kind SourceKind

	// Git and Remote.
	URL string
	// Git only.
	Reference *GitReference

	// Local only.
	Directory string
}

// String renders the Source the way it should appear in error messages:
// the URL for Git/Remote, the directory for Local.
func (s Source) String() string {
	switch s.Kind {
	case SourceGit, SourceRemote:
		return s.URL
	default:
		return s.Directory
	}
}

// Equal reports whether two Source values describe the same installation,
// i.e. should be deduplicated by the Lock Orchestrator.
func (s Source) Equal(other Source) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case SourceGit:
		if s.URL != other.URL {
			return false
		}
		switch {
		case s.Reference == nil && other.Reference == nil:
			return true
		case s.Reference == nil || other.Reference == nil:
			return false
		default:
			return *s.Reference == *other.Reference
		}
	case SourceRemote:
		return s.URL == other.URL
	case SourceLocal:
		return s.Directory == other.Directory
	default:
		return false
	}
}

// Template is a named fragment of the rendered script. If Each is true it
// is rendered once per filename in a plugin's filename list; otherwise it
// is rendered once per plugin.
type Template struct {
	Value string `toml:"value"`
	Each  bool   `toml:"each"`
}

// Plugin is one manifest entry.
type Plugin struct {
	// Name must be unique within a Config.
	Name string
	// Source is where this plugin's files live.
	Source Source
	// Uses, if non-nil, is the ordered list of template-glob patterns this
	// plugin uses in place of the global Matches cascade. A present but
	// empty slice is distinct from nil: it still means "defined `uses`",
	// and (per spec.md §4.3) every entry must match at least one file.
	Uses []string
	// Apply, if non-nil, overrides the global Apply list for this plugin.
	Apply []string
}

// Config is the fully parsed, defaulted manifest. DefaultMatches is what
// the real parser fills in when the manifest omits `matches`; it is
// exported here so anything constructing a Config by hand (tests, the
// thin CLI) gets the same default sheldon itself ships.
var DefaultMatches = []string{
	"{{ .name }}.plugin.zsh",
	"{{ .name }}.zsh",
	"*.plugin.zsh",
	"*.zsh",
	"*.sh",
}

// Config is the in-memory manifest, consumed (moved) by the Lock
// Orchestrator.
type Config struct {
	// Matches is the global first-wins glob cascade used when a Plugin
	// omits `uses`.
	Matches []string
	// Apply is the global ordered template-name list used when a Plugin
	// omits `apply`.
	Apply []string
	// Templates is the ordered name-to-Template map; order is preserved
	// into the LockedConfig and drives nothing about rendering order
	// (script order follows Plugin.Apply, not Templates' insertion order).
	Templates *OrderedTemplates
	// Plugins is the ordered plugin list; manifest order is authoritative
	// and is preserved through locking regardless of install order.
	Plugins []Plugin
}

// NewConfig returns a Config with the parser's documented defaults applied,
// ready for a caller to append Plugins and Templates to.
func NewConfig() *Config {
	return &Config{
		Matches:   append([]string(nil), DefaultMatches...),
		Apply:     []string{"source"},
		Templates: NewOrderedTemplates(),
	}
}
