package model

// ResponseSource names which backend produced a reply.
type ResponseSource string

const (
	SourceLocal  ResponseSource = "local"
	SourceGemini ResponseSource = "gemini"
	SourceOpenAI ResponseSource = "openai"
)

// BackendPreference is the caller's request for which remote backend to try.
// The orchestrator honours it only when the backend is configured and the NLP
// confidence clears the threshold.
type BackendPreference struct {
	UseGemini bool `json:"use_gemini"`
	UseOpenAI bool `json:"use_openai"`
}

// TurnInput is one inbound chat turn from the request layer.
type TurnInput struct {
	UserID  string            `json:"user_id"`
	Message string            `json:"message"`
	Backend BackendPreference `json:"backend"`
}

// TurnResult is the outcome of one turn.
type TurnResult struct {
	Response    string         `json:"response"`
	Suggestions []string       `json:"suggestions"`
	NLP         NLPResult      `json:"nlp_result"`
	Source      ResponseSource `json:"response_source"`
}

// TurnData bundles everything the responder nodes need for one turn.
type TurnData struct {
	Input       TurnInput
	NLP         NLPResult
	KB          RelevantData
	Preferences map[string]any
}

// TurnState is the graph-local state for one pipeline invocation.
// All reads/writes happen only inside graph state handlers
// (WithStatePreHandler, WithStatePostHandler, compose.ProcessState), which the
// graph runtime serialises; never touch it outside handlers.
type TurnState struct {
	Input       TurnInput
	NLP         *NLPResult
	Suggestions []string
	Source      ResponseSource
}
