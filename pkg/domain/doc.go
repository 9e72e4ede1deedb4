/*
Package domain contains the core models of a RapidFire project.

A Project is a small hierarchical document: an ordered list of Scenes, each holding an
ordered list of SoundInstances. The package also defines the events pushed to the
presentation layer and the sentinel errors shared by the core and its adapters.
It is kept free of I/O so every adapter (file, Redis, HTTP, MCP) can share it.

# Key Entities

  - Project: The editable document (display name plus scenes).
  - Scene: A named grouping of sounds, unique by ID inside a Project.
  - SoundInstance: One playable asset with its own volume, loop flag and variant.
  - Event: The tagged union delivered to the presentation layer (VolumeWarning, ProjectUpdated).
*/
package domain
