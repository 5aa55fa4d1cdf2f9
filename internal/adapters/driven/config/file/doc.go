// Package file provides file-based settings storage.
//
// Adapters:
//   - ConfigStore: TOML configuration under ~/.doctalk/config.toml
//   - PromptStore: user-editable prompt files under ~/.doctalk/prompts/
package file
