/*
Package ports defines the driven ports (interfaces) of the RapidFire core.

These interfaces decouple the project actor and the volume watcher from concrete
storage backends and platform volume APIs.

# Key Interfaces

  - ProjectStore: Loads and saves the single project document (file, Redis, memory).
  - VolumeSource: Supplies output volume readings, as a stream and as a point read.
*/
package ports
