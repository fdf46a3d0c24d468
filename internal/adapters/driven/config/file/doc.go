// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the ramener config directory.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage (config.toml)
//   - PromptStore: user-editable prompt templates (prompts/*.txt)
package file
