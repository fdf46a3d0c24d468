package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return a sensible default
	// or an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptMetadataSystem is the system instruction for metadata extraction.
	// It has no placeholders.
	PromptMetadataSystem = "metadata_system"

	// PromptMetadataUser is the user prompt for metadata extraction. It expects
	// the {schema}, {excerpt} and {guidance} placeholders.
	PromptMetadataUser = "metadata_user"

	// PromptOCRTranscribe is the instruction sent with page images.
	PromptOCRTranscribe = "ocr_transcribe"
)

// PromptStoreAware is an optional interface for adapters that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the adapter uses its built-in prompts.
	SetPromptStore(store PromptStore)
}
