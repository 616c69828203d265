// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Runs one extraction task over a piece of text
//   - BrdStore: Document persistence and identifier assignment
//   - Normaliser: Transforms raw uploads into plain text
//   - NormaliserRegistry: Selects appropriate normaliser
//   - PostProcessor: Cleans and chunks source text
//   - Renderer: Writes a document in an export format
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, document creation
//     fails with ErrLLMUnavailable but stored documents remain readable.
//   - PromptStore: Custom prompt templates. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
