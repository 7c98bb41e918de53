/*
Package ports defines the driven ports (interfaces) of Arbor.

These interfaces decouple the core from concrete transports and storage, so the
codec, the engine and the outer adapters work with any backend.

# Key Interfaces

  - Reader / Writer: Byte transports the codec reads models from and writes
    models to (file, memory buffer, gzip stream, hashing stream).
  - ModelLoader: Resolves models by name (YAML definitions, Loam documents, stores).
  - ModelStore: Persists compiled models (memory, file, Redis, Badger).
  - DistributedLocker: Coordinates writers of the same model across replicas.

RunStreamContract and RunModelStoreContract let every adapter check itself
against the same expectations.
*/
package ports
