// Package enginerunner hosts the shared abstractions for constructing and
// running serial workflow drivers. It exposes the `Runner` interface plus
// helpers (`Factory`, `Resolve`) so embedders can inject engine.Dependencies
// once and obtain a runner, while unit tests can swap in fakes. This keeps
// orchestration logic in `internal/engine` reusable without wiring
// duplication.
package enginerunner
