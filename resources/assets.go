// Package resources embeds the tray icons.
package resources

import (
	"embed"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/cockroachdb/errors"
)

// Icon names.
const (
	IconRunning = "running"
	IconPaused  = "paused"
	IconResting = "resting"
)

const iconDir = "icons/"

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns the named SVG icon as a Fyne resource.
func Icon(name string) (fyne.Resource, error) {
	path := iconDir + name + ".svg"
	if cached, ok := iconCache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := iconFS.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load icon %s", name)
	}

	resource := fyne.NewStaticResource(name+".svg", data)
	iconCache.Store(path, resource)
	return resource, nil
}

// MustIcon returns the named icon or panics.
func MustIcon(name string) fyne.Resource {
	resource, err := Icon(name)
	if err != nil {
		panic(err)
	}
	return resource
}
