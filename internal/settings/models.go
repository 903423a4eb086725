package settings

// Kind separates chat models from text-completion (code) models.
type Kind string

const (
	KindChat Kind = "chat"
	KindCode Kind = "code"
)

// Model describes a selectable model and its token limit.
type Model struct {
	ID        string `json:"model"`
	MaxTokens int    `json:"maxTokens"`
	Kind      Kind   `json:"kind"`
}

// ChatModels lists the models offered for the chat tab.
var ChatModels = []Model{
	{ID: "gpt-4", MaxTokens: 8192, Kind: KindChat},
	{ID: "gpt-4-0314", MaxTokens: 8192, Kind: KindChat},
	{ID: "gpt-4-32k", MaxTokens: 32768, Kind: KindChat},
	{ID: "gpt-4-32k-0314", MaxTokens: 32768, Kind: KindChat},
	{ID: "gpt-3.5-turbo", MaxTokens: 4096, Kind: KindChat},
	{ID: "gpt-3.5-turbo-0301", MaxTokens: 4096, Kind: KindChat},
}

// CodeModels lists the models offered for the code tab.
var CodeModels = []Model{
	{ID: "code-davinci-002", MaxTokens: 8000, Kind: KindCode},
	{ID: "code-cushman-001", MaxTokens: 2048, Kind: KindCode},
}

// AllModels returns chat and code models together.
func AllModels() []Model {
	all := make([]Model, 0, len(ChatModels)+len(CodeModels))
	all = append(all, ChatModels...)
	return append(all, CodeModels...)
}

// LookupModel finds a model by id.
func LookupModel(id string) (Model, bool) {
	for _, m := range AllModels() {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// ClampMaxTokens lowers the max-token budget of the given kind to the limit
// of the currently selected model. Unknown models are left alone.
func ClampMaxTokens(s *Settings, kind Kind) {
	switch kind {
	case KindChat:
		if m, ok := LookupModel(s.ChatModel); ok && s.ChatMaxTokens > m.MaxTokens {
			s.ChatMaxTokens = m.MaxTokens
		}
	case KindCode:
		if m, ok := LookupModel(s.CodeModel); ok && s.CodeMaxTokens > m.MaxTokens {
			s.CodeMaxTokens = m.MaxTokens
		}
	}
}
