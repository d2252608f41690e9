package layout

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// WorkRootDir is the folder under a project root that holds all workfiles.
	WorkRootDir = "05_WORK"
	// ShotsDir holds one folder per shot under the work root.
	ShotsDir = "shots"
	// AssetsDir holds one folder per asset under the work root.
	AssetsDir = "assets"
)

// Template describes a project-type folder convention.
type Template struct {
	Key         string
	Description string
	// Prefix starts new project folder names, e.g. AN_DMO_PokuShort.
	Prefix    string
	WorkRoot  string
	ShotsDir  string
	AssetsDir string
	// Folders lists the directories Scaffold creates, relative to the project root.
	Folders []string
}

// Subtree returns the folder (relative to the project root) that holds
// targets of the given kind.
func (t Template) Subtree(kind TargetKind) string {
	if kind == TargetShot {
		return t.WorkRoot + "/" + t.ShotsDir
	}
	return t.WorkRoot + "/" + t.AssetsDir
}

var templates = map[string]Template{
	"animation": {
		Key:         "animation",
		Description: "Animated short: prepro, assets, shots, post, delivery",
		Prefix:      "AN",
		WorkRoot:    WorkRootDir,
		ShotsDir:    ShotsDir,
		AssetsDir:   AssetsDir,
		Folders: []string{
			"01_ADMIN",
			"02_PREPRO/script",
			"02_PREPRO/boards",
			"02_PREPRO/designs/characters",
			"02_PREPRO/designs/environments",
			"02_PREPRO/designs/props",
			"03_ASSETS/characters",
			"03_ASSETS/environments",
			"03_ASSETS/props",
			"04_SHOTS",
			"05_WORK/shots",
			"05_WORK/assets",
			"06_POST/comp",
			"06_POST/edit/project",
			"06_POST/edit/shots_for_edit",
			"06_POST/sound",
			"07_DELIVERY/video",
			"07_DELIVERY/stills",
			"z_TEMP",
		},
	},
	"game": {
		Key:         "game",
		Description: "Small game: design docs, art, tech, audio, QA, release",
		Prefix:      "GD",
		WorkRoot:    WorkRootDir,
		ShotsDir:    ShotsDir,
		AssetsDir:   AssetsDir,
		Folders: []string{
			"01_PRODUCTION/design_docs",
			"01_PRODUCTION/gdd",
			"02_ART/concepts",
			"02_ART/characters",
			"02_ART/environments",
			"02_ART/ui",
			"02_ART/exports",
			"03_TECH/prototypes",
			"03_TECH/source",
			"03_TECH/builds",
			"04_AUDIO/sfx",
			"04_AUDIO/music",
			"05_WORK/shots",
			"05_WORK/assets",
			"06_QA/test_plans",
			"06_QA/bug_reports",
			"07_RELEASE/builds",
			"07_RELEASE/marketing",
			"z_TEMP",
		},
	},
	"art": {
		Key:         "art",
		Description: "Single illustration or drawing series",
		Prefix:      "DR",
		WorkRoot:    WorkRootDir,
		ShotsDir:    ShotsDir,
		AssetsDir:   AssetsDir,
		Folders: []string{
			"01_REFERENCE",
			"02_SKETCHES",
			"03_FINAL/export",
			"05_WORK/shots",
			"05_WORK/assets",
			"z_TEMP",
		},
	},
}

// Older project-creator keys still found in existing project manifests.
var templateAliases = map[string]string{
	"animation_short": "animation",
	"game_dev_small":  "game",
	"drawing_single":  "art",
}

// Lookup returns the template registered under key or one of its aliases.
func Lookup(key string) (Template, error) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if alias, ok := templateAliases[normalized]; ok {
		normalized = alias
	}
	tmpl, ok := templates[normalized]
	if !ok {
		return Template{}, fmt.Errorf("%w %q (valid: %s)", ErrUnknownTemplate, key, strings.Join(TemplateKeys(), ", "))
	}
	return tmpl, nil
}

// TemplateKeys returns the canonical template keys in sorted order.
func TemplateKeys() []string {
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Templates returns every registered template sorted by key.
func Templates() []Template {
	keys := TemplateKeys()
	out := make([]Template, 0, len(keys))
	for _, key := range keys {
		out = append(out, templates[key])
	}
	return out
}
