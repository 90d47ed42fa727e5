package sheldon

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// maxThreads bounds the Lock Orchestrator's worker pool (spec.md §4.4).
const maxThreads = 8

// LockedPlugin is the result of locking a single Plugin.
type LockedPlugin struct {
	Name      string   `toml:"name"`
	Directory string   `toml:"directory"`
	Filenames []string `toml:"filenames"`
	Apply     []string `toml:"apply"`
}

// LockedConfig is the durable output of the Lock Orchestrator: a frozen
// Settings snapshot, the manifest's templates (order preserved), the
// ordered LockedPlugins, and a transient, never-persisted error list.
type LockedConfig struct {
	Settings  LockedSettings    `toml:"settings"`
	Templates *OrderedTemplates `toml:"templates"`
	Plugins   []LockedPlugin    `toml:"plugins"`

	// Errors is populated only by errors that the top-level `lock` flow
	// (lock.rs's Config::lock caller) wants to report in aggregate; the
	// Lock Orchestrator itself returns on the first error (spec.md §4.4
	// step 5) rather than accumulating here. It is never serialized.
	Errors []error `toml:"-"`
}

// lockGroup is the unit of work submitted to the worker pool: one Source
// and every (manifest-index, Plugin) pair that uses it.
type lockGroup struct {
	source  Source
	entries []indexedPlugin
}

type indexedPlugin struct {
	index  int
	plugin Plugin
}

type indexedLockedPlugin struct {
	index  int
	locked LockedPlugin
}

// groupPlugins partitions config.Plugins into insertion-ordered groups by
// Source equality (spec.md §4.4 step 1, property 2: source deduplication).
func groupPlugins(plugins []Plugin) []lockGroup {
	var groups []lockGroup
	for i, p := range plugins {
		found := -1
		for gi, g := range groups {
			if g.source.Equal(p.Source) {
				found = gi
				break
			}
		}
		if found == -1 {
			groups = append(groups, lockGroup{source: p.Source})
			found = len(groups) - 1
		}
		groups[found].entries = append(groups[found].entries, indexedPlugin{index: i, plugin: p})
	}
	return groups
}

// lockPlugin converts a single Plugin into a LockedPlugin, given its
// already-installed LockedSource (spec.md §4.3, §4.4 step 4b).
func lockPlugin(settings *Settings, plugin Plugin, source LockedSource, globalMatches, globalApply []string) (LockedPlugin, error) {
	apply := plugin.Apply
	if apply == nil {
		apply = globalApply
	}

	if plugin.Source.Kind == SourceRemote {
		// Remote selection shortcut (property 7): filenames is always
		// exactly the one downloaded file, regardless of uses/matches.
		return LockedPlugin{
			Name:      plugin.Name,
			Directory: source.Directory,
			Filenames: []string{source.Filename},
			Apply:     apply,
		}, nil
	}

	filenames, err := selectFiles(settings, plugin, source, globalMatches)
	if err != nil {
		return LockedPlugin{}, wrap(KindSourceInstallFailed, err, "failed to install plugin `%s`", plugin.Name)
	}

	return LockedPlugin{
		Name:      plugin.Name,
		Directory: source.Directory,
		Filenames: filenames,
		Apply:     apply,
	}, nil
}

// Lock consumes config and produces a LockedConfig (spec.md §4.4). The
// caller must not reuse config afterwards: its Plugins and Templates are
// moved into the result.
func Lock(settings *Settings, config *Config) (*LockedConfig, error) {
	groups := groupPlugins(config.Plugins)

	var plugins []LockedPlugin
	if len(groups) > 0 {
		var err error
		plugins, err = lockGroups(settings, groups, config.Matches, config.Apply)
		if err != nil {
			return nil, err
		}
	}

	return &LockedConfig{
		Settings:  settings.Lock(),
		Templates: config.Templates,
		Plugins:   plugins,
	}, nil
}

// lockGroups drives the bounded worker pool: each group is installed and
// selected exactly once, workers may finish in any order, and results are
// restored to manifest order before returning (properties 1 and 2).
func lockGroups(settings *Settings, groups []lockGroup, globalMatches, globalApply []string) ([]LockedPlugin, error) {
	limit := len(groups)
	if limit > maxThreads {
		limit = maxThreads
	}

	results := make(chan []indexedLockedPlugin, len(groups))

	g := new(errgroup.Group)
	g.SetLimit(limit)

	for _, group := range groups {
		group := group
		g.Go(func() error {
			locked, err := lockOneGroup(settings, group, globalMatches, globalApply)
			if err != nil {
				return err
			}
			results <- locked
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	var flat []indexedLockedPlugin
	for batch := range results {
		flat = append(flat, batch...)
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].index < flat[j].index })

	plugins := make([]LockedPlugin, len(flat))
	for i, ilp := range flat {
		plugins[i] = ilp.locked
	}
	return plugins, nil
}

// lockOneGroup installs group's Source once, then locks every plugin in
// the group against the resulting LockedSource.
func lockOneGroup(settings *Settings, group lockGroup, globalMatches, globalApply []string) ([]indexedLockedPlugin, error) {
	source, err := install(settings, group.source)
	if err != nil {
		return nil, wrap(KindSourceInstallFailed, err, "failed to install source `%s`", group.source)
	}

	locked := make([]indexedLockedPlugin, 0, len(group.entries))
	for _, entry := range group.entries {
		lp, err := lockPlugin(settings, entry.plugin, source, globalMatches, globalApply)
		if err != nil {
			return nil, err
		}
		locked = append(locked, indexedLockedPlugin{index: entry.index, locked: lp})
	}
	return locked, nil
}
