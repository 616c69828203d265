// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.brdify.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable LLM system prompts
package file
