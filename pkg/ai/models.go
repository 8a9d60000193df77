// ABOUTME: Built-in model definitions and lookup by ID
// ABOUTME: gpt-4o-mini is the session default

package ai

// Built-in model definitions.
var (
	ModelGPT4o = Model{
		ID:              "gpt-4o",
		Name:            "GPT-4o",
		Api:             ApiOpenAI,
		MaxTokens:       128000,
		MaxOutputTokens: 16384,
		SupportsTools:   true,
	}

	ModelGPT4oMini = Model{
		ID:              "gpt-4o-mini",
		Name:            "GPT-4o Mini",
		Api:             ApiOpenAI,
		MaxTokens:       128000,
		MaxOutputTokens: 16384,
		SupportsTools:   true,
	}

	ModelGPT41 = Model{
		ID:              "gpt-4.1",
		Name:            "GPT-4.1",
		Api:             ApiOpenAI,
		MaxTokens:       1000000,
		MaxOutputTokens: 32768,
		SupportsTools:   true,
	}
)

// DefaultModel is used when no model is configured.
var DefaultModel = ModelGPT4oMini

// BuiltinModels returns all built-in model definitions.
func BuiltinModels() []Model {
	return []Model{ModelGPT4o, ModelGPT4oMini, ModelGPT41}
}

// modelIndex is a pre-built map for O(1) model lookups by ID.
var modelIndex = func() map[string]*Model {
	models := BuiltinModels()
	idx := make(map[string]*Model, len(models))
	for i := range models {
		idx[models[i].ID] = &models[i]
	}
	return idx
}()

// FindModel looks up a model by ID from the built-in list.
// Returns nil if not found.
func FindModel(id string) *Model {
	return modelIndex[id]
}
