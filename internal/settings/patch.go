package settings

// Patch is a partial Settings. Nil fields are left untouched by Apply.
type Patch struct {
	LastOpenTab      *string  `json:"lastOpenTab,omitempty"`
	APIKey           *string  `json:"apiKey,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
	Stop             *string  `json:"stop,omitempty"`

	ChatModel         *string        `json:"chatModel,omitempty"`
	ChatMaxTokens     *int           `json:"chatMaxTokens,omitempty"`
	ChatSystemMessage *string        `json:"chatSystemMessage,omitempty"`
	ChatPrompt        *string        `json:"chatPrompt,omitempty"`
	ChatMessages      *[]ChatMessage `json:"chatMessages,omitempty"`
	ChatTotalTokens   *int           `json:"chatTotalTokens,omitempty"`

	CodeModel       *string `json:"codeModel,omitempty"`
	CodeMaxTokens   *int    `json:"codeMaxTokens,omitempty"`
	CodePrompt      *string `json:"codePrompt,omitempty"`
	CodeResult      *string `json:"codeResult,omitempty"`
	CodeTotalTokens *int    `json:"codeTotalTokens,omitempty"`

	Loading *bool `json:"loading,omitempty"`
}

// Value returns a pointer to v, for building patches.
func Value[T any](v T) *T {
	return &v
}

// Apply merges the set fields of p into s.
func (p Patch) Apply(s *Settings) {
	set(&s.LastOpenTab, p.LastOpenTab)
	set(&s.APIKey, p.APIKey)
	set(&s.Temperature, p.Temperature)
	set(&s.TopP, p.TopP)
	set(&s.FrequencyPenalty, p.FrequencyPenalty)
	set(&s.PresencePenalty, p.PresencePenalty)
	set(&s.Stop, p.Stop)

	set(&s.ChatModel, p.ChatModel)
	set(&s.ChatMaxTokens, p.ChatMaxTokens)
	set(&s.ChatSystemMessage, p.ChatSystemMessage)
	set(&s.ChatPrompt, p.ChatPrompt)
	if p.ChatMessages != nil {
		s.ChatMessages = CloneMessages(*p.ChatMessages)
	}
	set(&s.ChatTotalTokens, p.ChatTotalTokens)

	set(&s.CodeModel, p.CodeModel)
	set(&s.CodeMaxTokens, p.CodeMaxTokens)
	set(&s.CodePrompt, p.CodePrompt)
	set(&s.CodeResult, p.CodeResult)
	set(&s.CodeTotalTokens, p.CodeTotalTokens)

	set(&s.Loading, p.Loading)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ClearConversation empties the chat history and resets its token counter.
func ClearConversation() Patch {
	d := Defaults()
	return Patch{
		ChatMessages:    Value(d.ChatMessages),
		ChatTotalTokens: Value(d.ChatTotalTokens),
	}
}

// ResetParameters restores the sampling parameters and token budgets.
func ResetParameters() Patch {
	d := Defaults()
	return Patch{
		Temperature:      Value(d.Temperature),
		ChatMaxTokens:    Value(d.ChatMaxTokens),
		CodeMaxTokens:    Value(d.CodeMaxTokens),
		Stop:             Value(d.Stop),
		TopP:             Value(d.TopP),
		FrequencyPenalty: Value(d.FrequencyPenalty),
		PresencePenalty:  Value(d.PresencePenalty),
	}
}

// ClearCode empties the code prompt and the last code result.
func ClearCode() Patch {
	d := Defaults()
	return Patch{
		CodePrompt: Value(d.CodePrompt),
		CodeResult: Value(d.CodeResult),
	}
}
