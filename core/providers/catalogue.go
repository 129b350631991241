package providers

// Kind identifies the wire protocol an adapter speaks.
type Kind string

const (
	KindGroq       Kind = "groq"
	KindGemini     Kind = "gemini"
	KindOpenAI     Kind = "openai"
	KindAnthropic  Kind = "anthropic"
	KindOpenRouter Kind = "openrouter"
)

// Tier is a provider's coarse cost class.
type Tier string

const (
	TierFree Tier = "free"
	TierMid  Tier = "mid"
	TierPaid Tier = "paid"
)

// Descriptor is one entry of the routing catalogue. The catalogue's order is
// the routing priority: cheaper reachable providers come first, so "first
// usable" is always "cheapest usable".
type Descriptor struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Kind          Kind    `json:"provider"`
	Tier          Tier    `json:"tier"`
	CostPer1M     float64 `json:"costPer1M"`
	CredentialKey string  `json:"inputKey"`
	Model         string  `json:"-"`
}

// ReasoningSpecialistID names the catalogue entry preferred for reasoning
// and planning requests when its credential is configured.
const ReasoningSpecialistID = "kimi-k2"

var catalogue = []Descriptor{
	{ID: "groq-llama", Name: "Llama 3.3 70B", Kind: KindGroq, Tier: TierFree, CostPer1M: 0, CredentialKey: "GROQ_API_KEY", Model: "llama-3.3-70b-versatile"},
	{ID: "gemini-flash", Name: "Gemini 2.0 Flash", Kind: KindGemini, Tier: TierFree, CostPer1M: 0, CredentialKey: "GEMINI_API_KEY", Model: "gemini-2.0-flash-exp"},
	{ID: "kimi-k2", Name: "Kimi K2 Thinking", Kind: KindOpenRouter, Tier: TierMid, CostPer1M: 0.60, CredentialKey: "OPENROUTER_API_KEY", Model: "moonshotai/kimi-k2-thinking"},
	{ID: "gpt4o-mini", Name: "GPT-4o mini", Kind: KindOpenAI, Tier: TierPaid, CostPer1M: 0.15, CredentialKey: "OPENAI_API_KEY", Model: "gpt-4o-mini"},
	{ID: "claude-haiku", Name: "Claude 3.5 Haiku", Kind: KindAnthropic, Tier: TierPaid, CostPer1M: 0.25, CredentialKey: "ANTHROPIC_API_KEY", Model: "claude-haiku-4-5-20251001"},
	{ID: "gpt4o", Name: "GPT-4o", Kind: KindOpenAI, Tier: TierPaid, CostPer1M: 3.00, CredentialKey: "OPENAI_API_KEY", Model: "gpt-4o"},
}

// Catalogue returns the ordered provider list. Callers get a copy; the
// priority order itself is fixed at compile time.
func Catalogue() []Descriptor {
	out := make([]Descriptor, len(catalogue))
	copy(out, catalogue)
	return out
}
