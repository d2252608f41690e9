package dcc

// Application describes the program that opens one workfile kind.
type Application struct {
	Name string
	// Paths lists install locations per GOOS, most specific first. Bare names
	// are resolved through PATH.
	Paths map[string][]string
}

var blenderVersions = []string{"5.0", "4.5", "4.3", "4.2", "4.1", "4.0", "3.6"}

func blenderWindowsPaths() []string {
	paths := make([]string, 0, len(blenderVersions)+1)
	for _, v := range blenderVersions {
		paths = append(paths, `C:\Program Files\Blender Foundation\Blender `+v+`\blender.exe`)
	}
	return append(paths, "blender.exe")
}

var applications = map[string]Application{
	"blender": {
		Name: "Blender",
		Paths: map[string][]string{
			"linux":   {"/usr/bin/blender", "/usr/local/bin/blender", "/snap/bin/blender", "blender"},
			"darwin":  {"/Applications/Blender.app/Contents/MacOS/Blender", "blender"},
			"windows": blenderWindowsPaths(),
		},
	},
	"krita": {
		Name: "Krita",
		Paths: map[string][]string{
			"linux":   {"/usr/bin/krita", "/usr/local/bin/krita", "krita"},
			"darwin":  {"/Applications/krita.app/Contents/MacOS/krita", "krita"},
			"windows": {`C:\Program Files\Krita (x64)\bin\krita.exe`, `C:\Program Files\Krita\bin\krita.exe`, "krita.exe"},
		},
	},
	"photoshop": {
		Name: "Photoshop",
		Paths: map[string][]string{
			"darwin": {
				"/Applications/Adobe Photoshop 2025/Adobe Photoshop 2025.app/Contents/MacOS/Adobe Photoshop 2025",
				"/Applications/Adobe Photoshop 2024/Adobe Photoshop 2024.app/Contents/MacOS/Adobe Photoshop 2024",
			},
			"windows": {
				`C:\Program Files\Adobe\Adobe Photoshop 2025\Photoshop.exe`,
				`C:\Program Files\Adobe\Adobe Photoshop 2024\Photoshop.exe`,
				`C:\Program Files\Adobe\Adobe Photoshop 2023\Photoshop.exe`,
			},
		},
	},
	"aftereffects": {
		Name: "After Effects",
		Paths: map[string][]string{
			"darwin": {
				"/Applications/Adobe After Effects 2025/Adobe After Effects 2025.app/Contents/MacOS/After Effects",
				"/Applications/Adobe After Effects 2024/Adobe After Effects 2024.app/Contents/MacOS/After Effects",
			},
			"windows": {
				`C:\Program Files\Adobe\Adobe After Effects 2025\Support Files\AfterFX.exe`,
				`C:\Program Files\Adobe\Adobe After Effects 2024\Support Files\AfterFX.exe`,
				`C:\Program Files\Adobe\Adobe After Effects 2023\Support Files\AfterFX.exe`,
			},
		},
	},
	"pureref": {
		Name: "PureRef",
		Paths: map[string][]string{
			"linux":   {"/usr/bin/pureref", "/usr/local/bin/pureref", "pureref"},
			"darwin":  {"/Applications/PureRef.app/Contents/MacOS/PureRef", "pureref"},
			"windows": {`C:\Program Files\PureRef\PureRef.exe`, `C:\Program Files (x86)\PureRef\PureRef.exe`, "PureRef.exe"},
		},
	},
	"image": {
		Name: "GIMP",
		Paths: map[string][]string{
			"linux":   {"/usr/bin/gimp", "gimp"},
			"darwin":  {"/Applications/GIMP.app/Contents/MacOS/gimp"},
			"windows": {`C:\Program Files\GIMP 2\bin\gimp-2.10.exe`, `C:\Program Files\GIMP 3\bin\gimp-3.0.exe`},
		},
	},
}

// textKinds open in the desktop's default handler unless a text editor is
// configured.
var textKinds = map[string]bool{"fountain": true, "markdown": true}

var systemOpeners = map[string][]string{
	"linux":  {"xdg-open"},
	"darwin": {"open"},
}

// LookupApplication returns the application registered for a workfile kind.
func LookupApplication(kind string) (Application, bool) {
	app, ok := applications[kind]
	return app, ok
}

// Kinds lists every kind that has an application table or a system opener.
func Kinds() []string {
	return []string{"blender", "krita", "photoshop", "image", "fountain", "markdown", "pureref", "aftereffects"}
}
