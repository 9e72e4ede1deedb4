package domain

import (
	"encoding/json"
	"fmt"
)

// Volume bounds for a SoundInstance.
const (
	MinVolume = 0
	MaxVolume = 100
)

// SoundVariant categorizes a sound instance.
type SoundVariant string

const (
	VariantBackgroundMusic SoundVariant = "bgm"
	VariantSoundEffect     SoundVariant = "se"
	VariantVoice           SoundVariant = "voice"
)

// Valid reports whether v is one of the known variants.
func (v SoundVariant) Valid() bool {
	switch v {
	case VariantBackgroundMusic, VariantSoundEffect, VariantVoice:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown variants so malformed documents fail at load time.
func (v *SoundVariant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	variant := SoundVariant(s)
	if !variant.Valid() {
		return fmt.Errorf("unknown sound variant %q", s)
	}
	*v = variant
	return nil
}

// SoundInstance is one playable audio asset.
type SoundInstance struct {
	ID          string       `json:"id" yaml:"id"`
	DisplayName string       `json:"display_name" yaml:"display_name"`
	Path        string       `json:"path" yaml:"path"`
	Volume      int          `json:"volume" yaml:"volume"`
	Looped      bool         `json:"looped" yaml:"looped"`
	Variant     SoundVariant `json:"variant" yaml:"variant"`
}

// Scene groups sound instances, e.g. one game stage or menu.
type Scene struct {
	ID          string          `json:"id" yaml:"id"`
	DisplayName string          `json:"display_name" yaml:"display_name"`
	Sounds      []SoundInstance `json:"sounds" yaml:"sounds"`
}

// Project is the full editable document.
type Project struct {
	DisplayName string  `json:"display_name" yaml:"display_name"`
	Scenes      []Scene `json:"scenes" yaml:"scenes"`
}

// Clone returns a deep copy of the project.
// Copies are what cross goroutine boundaries; the live document is never shared.
func (p Project) Clone() Project {
	out := Project{DisplayName: p.DisplayName}
	if p.Scenes == nil {
		return out
	}
	out.Scenes = make([]Scene, len(p.Scenes))
	for i, scene := range p.Scenes {
		out.Scenes[i] = scene.Clone()
	}
	return out
}

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	out := s
	if s.Sounds != nil {
		out.Sounds = make([]SoundInstance, len(s.Sounds))
		copy(out.Sounds, s.Sounds)
	}
	return out
}

// FindSound returns a pointer into p for the given scene and sound IDs.
// The second result is false when either ID does not match.
func (p *Project) FindSound(sceneID, soundID string) (*SoundInstance, bool) {
	for i := range p.Scenes {
		scene := &p.Scenes[i]
		if scene.ID != sceneID {
			continue
		}
		for j := range scene.Sounds {
			if scene.Sounds[j].ID == soundID {
				return &scene.Sounds[j], true
			}
		}
		return nil, false
	}
	return nil, false
}

// ValidVolume reports whether v is within [MinVolume, MaxVolume].
func ValidVolume(v int) bool {
	return v >= MinVolume && v <= MaxVolume
}

// Validate checks the document invariants: unique scene IDs, unique sound IDs
// per scene, bounded volumes and known variants. All failures are reported.
func (p Project) Validate() error {
	var errs []error
	scenes := make(map[string]struct{}, len(p.Scenes))
	for i, scene := range p.Scenes {
		scenePath := fmt.Sprintf("scenes[%d]", i)
		if scene.ID == "" {
			errs = append(errs, &ValidationError{Key: scenePath + ".id", Reason: "required"})
		} else if _, dup := scenes[scene.ID]; dup {
			errs = append(errs, &ValidationError{Key: scenePath + ".id", Reason: "duplicate scene id", Value: scene.ID})
		}
		scenes[scene.ID] = struct{}{}

		sounds := make(map[string]struct{}, len(scene.Sounds))
		for j, sound := range scene.Sounds {
			soundPath := fmt.Sprintf("%s.sounds[%d]", scenePath, j)
			if sound.ID == "" {
				errs = append(errs, &ValidationError{Key: soundPath + ".id", Reason: "required"})
			} else if _, dup := sounds[sound.ID]; dup {
				errs = append(errs, &ValidationError{Key: soundPath + ".id", Reason: "duplicate sound id", Value: sound.ID})
			}
			sounds[sound.ID] = struct{}{}

			if !ValidVolume(sound.Volume) {
				errs = append(errs, &ValidationError{
					Key:    soundPath + ".volume",
					Reason: fmt.Sprintf("out of range [%d, %d]", MinVolume, MaxVolume),
					Value:  sound.Volume,
				})
			}
			if !sound.Variant.Valid() {
				errs = append(errs, &ValidationError{Key: soundPath + ".variant", Reason: "unknown variant", Value: sound.Variant})
			}
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// PatchSoundVolume targets one sound's volume.
type PatchSoundVolume struct {
	SceneID string `json:"scene_id"`
	SoundID string `json:"sound_id"`
	Volume  int    `json:"volume" yaml:"volume"`
}

// PatchSoundLooped targets one sound's loop flag.
type PatchSoundLooped struct {
	SceneID string `json:"scene_id"`
	SoundID string `json:"sound_id"`
	Looped  bool   `json:"looped" yaml:"looped"`
}

// PatchResult acknowledges a patch. Matched is false when the scene or sound
// ID did not resolve; the document is then left untouched but still persisted
// and broadcast.
type PatchResult struct {
	Matched bool `json:"matched"`
}
