package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/user/memory-beacon/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Photo is the static definition of a memory fragment
type Photo struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Clue        string `yaml:"clue"`
	Location    string `yaml:"location"`
}

// Reward is the raw reward block of a puzzle definition
type Reward struct {
	Type string          `yaml:"type"`
	ID   string          `yaml:"id"`
	Item *types.ItemSpec `yaml:"item"`
}

// Puzzle is the raw puzzle definition. Which answer field is read
// depends on Type.
type Puzzle struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"`
	Description     string   `yaml:"description"`
	Hint            string   `yaml:"hint"`
	AdditionalHints []string `yaml:"additional_hints"`
	Answer          string   `yaml:"answer"`
	Sequence        []string `yaml:"sequence"`
	Pattern         [][]int  `yaml:"pattern"`
	Required        []string `yaml:"required"`
	Options         []string `yaml:"options"`
	RequiredPhotos  int      `yaml:"required_photos"`
	MaxAttempts     int      `yaml:"max_attempts"`
	Scene           string   `yaml:"scene"`
	Reward          Reward   `yaml:"reward"`
}

// Scene lists the interactive objects of one location
type Scene struct {
	ID      string              `yaml:"id"`
	Name    string              `yaml:"name"`
	Ambient string              `yaml:"ambient"`
	Start   types.Transform     `yaml:"start"`
	Objects []types.WorldObject `yaml:"objects"`
}

// Pack is the full set of definitions a session is built from
type Pack struct {
	Photos  []Photo
	Puzzles []Puzzle
	Scenes  []Scene
}

// Scene returns the scene with the given id
func (p *Pack) Scene(id string) (Scene, bool) {
	for _, s := range p.Scenes {
		if s.ID == id {
			return s, true
		}
	}
	return Scene{}, false
}

// DataLoader handles loading definitions from YAML files
type DataLoader struct {
	fsys fs.FS
}

// NewDataLoader creates a loader reading from basePath, or from the
// embedded definitions when basePath is empty
func NewDataLoader(basePath string) *DataLoader {
	if basePath == "" {
		sub, _ := fs.Sub(embedded, "data")
		return &DataLoader{fsys: sub}
	}
	return &DataLoader{fsys: os.DirFS(basePath)}
}

// Default loads the embedded definitions
func Default() (*Pack, error) {
	return NewDataLoader("").Load()
}

// Load reads and validates photos, puzzles and scenes
func (dl *DataLoader) Load() (*Pack, error) {
	photos, err := dl.LoadPhotos()
	if err != nil {
		return nil, err
	}
	puzzles, err := dl.LoadPuzzles()
	if err != nil {
		return nil, err
	}
	scenes, err := dl.LoadScenes()
	if err != nil {
		return nil, err
	}

	pack := &Pack{Photos: photos, Puzzles: puzzles, Scenes: scenes}
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	return pack, nil
}

// LoadPhotos loads photo definitions from file
func (dl *DataLoader) LoadPhotos() ([]Photo, error) {
	var photos []Photo
	if err := dl.decode("photos.yaml", &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// LoadPuzzles loads puzzle definitions from file
func (dl *DataLoader) LoadPuzzles() ([]Puzzle, error) {
	var puzzles []Puzzle
	if err := dl.decode("puzzles.yaml", &puzzles); err != nil {
		return nil, err
	}
	return puzzles, nil
}

// LoadScenes loads scene definitions from file
func (dl *DataLoader) LoadScenes() ([]Scene, error) {
	var scenes []Scene
	if err := dl.decode("scenes.yaml", &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

func (dl *DataLoader) decode(name string, out any) error {
	data, err := fs.ReadFile(dl.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Validate checks cross references between definitions
func (p *Pack) Validate() error {
	photoIDs := make(map[string]bool, len(p.Photos))
	for _, photo := range p.Photos {
		if photo.ID == "" {
			return fmt.Errorf("photo without id")
		}
		if photoIDs[photo.ID] {
			return fmt.Errorf("duplicate photo %q", photo.ID)
		}
		photoIDs[photo.ID] = true
	}

	puzzleIDs := make(map[string]bool, len(p.Puzzles))
	for _, puzzle := range p.Puzzles {
		if puzzle.ID == "" {
			return fmt.Errorf("puzzle without id")
		}
		if puzzleIDs[puzzle.ID] {
			return fmt.Errorf("duplicate puzzle %q", puzzle.ID)
		}
		puzzleIDs[puzzle.ID] = true
		if puzzle.Reward.Type == "photo_fragment" && !photoIDs[puzzle.Reward.ID] {
			return fmt.Errorf("puzzle %q rewards unknown photo %q", puzzle.ID, puzzle.Reward.ID)
		}
	}

	sceneIDs := make(map[string]bool, len(p.Scenes))
	for _, scene := range p.Scenes {
		sceneIDs[scene.ID] = true
	}
	for _, scene := range p.Scenes {
		for _, obj := range scene.Objects {
			if obj.ID == "" || obj.Action == "" {
				return fmt.Errorf("scene %q has an object without id or action", scene.ID)
			}
			if ref, ok := obj.Data["photo"]; ok && !photoIDs[ref] {
				return fmt.Errorf("object %q references unknown photo %q", obj.ID, ref)
			}
			if ref, ok := obj.Data["puzzle"]; ok && !puzzleIDs[ref] {
				return fmt.Errorf("object %q references unknown puzzle %q", obj.ID, ref)
			}
			if ref, ok := obj.Data["scene"]; ok && !sceneIDs[ref] {
				return fmt.Errorf("object %q leads to unknown scene %q", obj.ID, ref)
			}
		}
	}

	return nil
}
