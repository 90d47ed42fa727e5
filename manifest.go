package sheldon

import (
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// manifestPlugin is the on-disk shape of a [[plugins]] entry, before its
// source keys are resolved into the tagged Source union the rest of the
// core operates on.
type manifestPlugin struct {
	Name   string   `toml:"name"`
	Git    string   `toml:"git"`
	Remote string   `toml:"remote"`
	Local  string   `toml:"local"`
	Branch string   `toml:"branch"`
	Tag    string   `toml:"tag"`
	Rev    string   `toml:"rev"`
	Uses   []string `toml:"uses"`
	Apply  []string `toml:"apply"`
}

type manifestTemplate struct {
	Value string `toml:"value"`
	Each  bool   `toml:"each"`
}

type manifestFile struct {
	Matches   []string                    `toml:"match"`
	Apply     []string                    `toml:"apply"`
	Templates map[string]manifestTemplate `toml:"templates"`
	Plugins   []manifestPlugin            `toml:"plugins"`
}

// ParseManifest reads and resolves a plugins.toml manifest into a Config
// ready for Lock. Template order is not meaningful on read (a bare TOML
// table has no author-controlled order), so templates are inserted into
// OrderedTemplates sorted by name, which keeps the lock file's template
// list the same from run to run. Script output does not depend on this
// order: it follows each plugin's apply list.
func ParseManifest(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(KindLockCorrupt, err, "failed to read manifest `%s`", path)
	}

	var mf manifestFile
	if err := toml.Unmarshal(raw, &mf); err != nil {
		return nil, wrap(KindLockCorrupt, err, "failed to parse manifest `%s`", path)
	}

	config := NewConfig()
	if mf.Matches != nil {
		config.Matches = mf.Matches
	}
	if mf.Apply != nil {
		config.Apply = mf.Apply
	}
	names := make([]string, 0, len(mf.Templates))
	for name := range mf.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := mf.Templates[name]
		config.Templates.Set(name, Template{Value: t.Value, Each: t.Each})
	}

	for _, mp := range mf.Plugins {
		source, err := resolveManifestSource(mp)
		if err != nil {
			return nil, err
		}
		config.Plugins = append(config.Plugins, Plugin{
			Name:   mp.Name,
			Source: source,
			Uses:   mp.Uses,
			Apply:  mp.Apply,
		})
	}
	return config, nil
}

func resolveManifestSource(mp manifestPlugin) (Source, error) {
	switch {
	case mp.Git != "":
		source := Source{Kind: SourceGit, URL: mp.Git}
		switch {
		case mp.Branch != "":
			ref := Branch(mp.Branch)
			source.Reference = &ref
		case mp.Tag != "":
			ref := Tag(mp.Tag)
			source.Reference = &ref
		case mp.Rev != "":
			ref := Revision(mp.Rev)
			source.Reference = &ref
		}
		return source, nil
	case mp.Remote != "":
		return Source{Kind: SourceRemote, URL: mp.Remote}, nil
	case mp.Local != "":
		return Source{Kind: SourceLocal, Directory: mp.Local}, nil
	default:
		return Source{}, wrap(KindSourceInstallFailed, nil, "plugin `%s` has no source", mp.Name)
	}
}
