package sheldon

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// templateContext builds the {root, name, directory} data every template
// render in this module uses. The three values are passed through as
// given: no UTF-8 check is made on them, and a path that is not valid
// UTF-8 is not reported as a KindEncoding error.
func templateContext(root, name, directory string) map[string]string {
	return map[string]string{
		"root":      root,
		"name":      name,
		"directory": directory,
	}
}

// matchGlob expands pattern (an absolute, already-rendered glob) and
// reports whether it matched anything. Matches are returned in the glob
// engine's native lexicographic order.
func matchGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, wrap(KindSourceInstallFailed, err, "failed to parse glob pattern `%s`", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// selectFiles implements the File Selector (spec.md §4.3). It is only
// called for non-Remote sources; a Remote plugin's single filename is
// already known from its LockedSource.
func selectFiles(settings *Settings, plugin Plugin, source LockedSource, globalMatches []string) ([]string, error) {
	data := templateContext(settings.Root, plugin.Name, source.Directory)

	if plugin.Uses != nil {
		var filenames []string
		for _, pattern := range plugin.Uses {
			rendered, err := renderTemplateString(pattern, data)
			if err != nil {
				return nil, wrap(KindTemplateRenderFailed, err, "failed to render template `%s`", pattern)
			}
			matches, err := matchGlob(filepath.Join(source.Directory, rendered))
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, wrap(KindNoFilesMatched, nil, "failed to find any files matching `%s`", rendered)
			}
			filenames = append(filenames, matches...)
		}
		return filenames, nil
	}

	// No `uses`: try the global cascade, first pattern that matches wins.
	for _, pattern := range globalMatches {
		rendered, err := renderTemplateString(pattern, data)
		if err != nil {
			return nil, wrap(KindTemplateRenderFailed, err, "failed to render template `%s`", pattern)
		}
		matches, err := matchGlob(filepath.Join(source.Directory, rendered))
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return matches, nil
		}
	}
	// Absence of any match across the whole cascade is legal.
	return nil, nil
}
