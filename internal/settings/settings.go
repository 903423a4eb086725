package settings

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Tab names used for LastOpenTab.
const (
	TabChat    = "Chat"
	TabCode    = "Code"
	TabSetting = "Setting"
)

// ChatMessage is a single entry of the conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Settings is the full record of user preferences and conversation state.
// It is persisted as a single JSON document under the settings key.
type Settings struct {
	// common
	LastOpenTab      string  `json:"lastOpenTab"`
	APIKey           string  `json:"apiKey"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	FrequencyPenalty float64 `json:"frequencyPenalty"`
	PresencePenalty  float64 `json:"presencePenalty"`
	Stop             string  `json:"stop"`

	// chat
	ChatModel         string        `json:"chatModel"`
	ChatMaxTokens     int           `json:"chatMaxTokens"`
	ChatSystemMessage string        `json:"chatSystemMessage"`
	ChatPrompt        string        `json:"chatPrompt"`
	ChatMessages      []ChatMessage `json:"chatMessages"`
	ChatTotalTokens   int           `json:"chatTotalTokens"`

	// code
	CodeModel       string `json:"codeModel"`
	CodeMaxTokens   int    `json:"codeMaxTokens"`
	CodePrompt      string `json:"codePrompt"`
	CodeResult      string `json:"codeResult"`
	CodeTotalTokens int    `json:"codeTotalTokens"`

	// Loading is set while a completion request is in flight.
	Loading bool `json:"loading"`
}

// Defaults returns the settings used when nothing has been persisted yet.
func Defaults() Settings {
	return Settings{
		LastOpenTab:      TabChat,
		APIKey:           "",
		Temperature:      0.7,
		TopP:             1,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		Stop:             "",

		ChatModel:       "gpt-3.5-turbo",
		ChatMaxTokens:   1024,
		ChatPrompt:      "",
		ChatMessages:    []ChatMessage{},
		ChatTotalTokens: 0,

		CodeModel:       "code-davinci-002",
		CodeMaxTokens:   1024,
		CodePrompt:      "",
		CodeResult:      "",
		CodeTotalTokens: 0,
	}
}

// Clone returns a copy that shares no memory with s.
func (s Settings) Clone() Settings {
	out := s
	out.ChatMessages = CloneMessages(s.ChatMessages)
	return out
}

// CloneMessages copies a message list. A nil list becomes an empty one.
func CloneMessages(msgs []ChatMessage) []ChatMessage {
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// LayoutChanged reports whether the change from prev to next affects the
// plugin window size.
func LayoutChanged(prev, next Settings) bool {
	return prev.LastOpenTab != next.LastOpenTab
}
