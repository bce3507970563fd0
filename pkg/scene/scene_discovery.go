package scene

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/df07/go-batch-raytracer/pkg/geometry"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
}

// DefaultRandomSceneSeed is the seed used by the "random" built-in scene
const DefaultRandomSceneSeed = 42

type builtin struct {
	info   SceneInfo
	create func(overrides ...geometry.CameraConfig) *Scene
}

var builtins = map[string]builtin{
	"default": {
		info: SceneInfo{DisplayName: "Default Scene", Description: "Diffuse, hollow glass and metal spheres on a ground sphere"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewDefaultScene(overrides...)
		},
	},
	"random": {
		info: SceneInfo{DisplayName: "Random Spheres", Description: "Ground sphere with a field of random small spheres and three large ones"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewRandomScene(DefaultRandomSceneSeed, overrides...)
		},
	},
	"spheregrid": {
		info: SceneInfo{DisplayName: "Sphere Grid", Description: "10x10 grid cycling diffuse, metal and glass"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewSphereGridScene(overrides...)
		},
	},
	"empty": {
		info: SceneInfo{DisplayName: "Empty Sky", Description: "No geometry, sky gradient only"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewEmptyScene(overrides...)
		},
	},
}

// BuiltinNames returns the built-in scene names in sorted order
func BuiltinNames() []string {
	names := lo.Keys(builtins)
	sort.Strings(names)
	return names
}

// Create builds a scene by built-in name or from a .json scene file path
func Create(name string, overrides ...geometry.CameraConfig) (*Scene, error) {
	if name == "" {
		return nil, errors.New("scene name is empty")
	}
	if b, ok := builtins[name]; ok {
		return b.create(overrides...), nil
	}
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadJSONScene(name, overrides...)
	}
	return nil, errors.Errorf("unknown scene %q (built-in scenes: %s)", name, strings.Join(BuiltinNames(), ", "))
}

// ListJSONScenes scans dir for .json scene files and reads their metadata.
// A missing directory yields an empty list.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return []SceneInfo{}, nil
		}
		return nil, errors.Wrap(err, "stat scenes directory")
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "scan scenes directory")
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := readJSONMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ListAllScenes returns built-in scenes followed by scene files found in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	all := lo.Map(BuiltinNames(), func(name string, _ int) SceneInfo {
		info := builtins[name].info
		info.ID = name
		info.Group = "Built-in Scenes"
		info.Type = "builtin"
		return info
	})

	files, err := ListJSONScenes(dir)
	if err != nil {
		return nil, err
	}
	return append(all, files...), nil
}

func readJSONMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          filePath,
		DisplayName: nameWithoutExt,
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, errors.Wrapf(err, "read %s", filePath)
	}

	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return info, errors.Wrapf(err, "parse metadata of %s", filePath)
	}

	if meta.Name != "" {
		info.DisplayName = meta.Name
	}
	info.Description = meta.Description
	if meta.Group != "" {
		info.Group = meta.Group
	}
	return info, nil
}
