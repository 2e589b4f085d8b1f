// Embedded demo scene so the viewer works before any scenes directory is
// configured.
package scene

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
)

//go:embed assets/demo
var demoFS embed.FS

// DemoSceneID is the ID of the embedded demo scene.
const DemoSceneID = "billabong"

// DemoScene returns the embedded demo manifest and its decoded model.
// The returned scene has no Dir; callers must use DemoModel rather than
// resolving paths on disk.
func DemoScene() (*Scene, *Model, error) {
	manifest, err := demoFS.ReadFile("assets/demo/scene.yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("reading embedded demo manifest: %w", err)
	}
	s, err := ParseManifest(bytes.NewReader(manifest))
	if err != nil {
		return nil, nil, fmt.Errorf("embedded demo manifest: %w", err)
	}

	raw, err := demoFS.ReadFile("assets/demo/platypus.model")
	if err != nil {
		return nil, nil, fmt.Errorf("reading embedded demo model: %w", err)
	}
	m, err := ParseModel(s.Model, bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("embedded demo model: %w", err)
	}
	return s, m, nil
}

// DemoAssets exposes the embedded files, used by `scenes export` to write
// the demo scene into a real scenes directory.
func DemoAssets() fs.FS {
	return demoFS
}
