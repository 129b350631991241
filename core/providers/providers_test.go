package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/sashabaranov/go-openai"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalogue", func() {
	It("should order free providers before paid ones", func() {
		cat := Catalogue()
		Expect(cat).NotTo(BeEmpty())
		Expect(cat[0].Tier).To(Equal(TierFree))
		lastFree := -1
		firstNonFree := len(cat)
		for i, d := range cat {
			if d.Tier == TierFree {
				lastFree = i
			} else if i < firstNonFree {
				firstNonFree = i
			}
		}
		Expect(lastFree).To(BeNumerically("<", firstNonFree))
	})

	It("should contain the reasoning specialist", func() {
		found := false
		for _, d := range Catalogue() {
			if d.ID == ReasoningSpecialistID {
				found = true
				Expect(d.Tier).NotTo(Equal(TierFree))
			}
		}
		Expect(found).To(BeTrue())
	})

	It("should hand out copies, not the backing slice", func() {
		cat := Catalogue()
		cat[0].ID = "mutated"
		Expect(Catalogue()[0].ID).NotTo(Equal("mutated"))
	})
})

var _ = Describe("OpenAICompat", func() {
	var (
		server  *httptest.Server
		adapter *OpenAICompat
		desc    Descriptor
	)

	newAdapter := func(handler http.HandlerFunc) {
		server = httptest.NewServer(handler)
		adapter = &OpenAICompat{
			provider:  "Test",
			baseURL:   server.URL + "/v1",
			maxTokens: 2048,
		}
		desc = Descriptor{ID: "test", Model: "test-model"}
	}

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	It("should return content and usage from a successful call", func() {
		newAdapter(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"choices": [{"message": {"role": "assistant", "content": "hi there"}}],
				"usage": {"prompt_tokens": 12, "completion_tokens": 7}
			}`))
		})

		res, err := adapter.Invoke(context.Background(), desc, []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "hello"},
		}, "test-key")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Content).To(Equal("hi there"))
		Expect(res.Usage.PromptTokens).To(Equal(12))
		Expect(res.Usage.CompletionTokens).To(Equal(7))
		Expect(res.Usage.Total()).To(Equal(19))
	})

	It("should forward the credential and message order", func() {
		var auth string
		newAdapter(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}], "usage": {}}`))
		})

		_, err := adapter.Invoke(context.Background(), desc, []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "sys"},
			{Role: openai.ChatMessageRoleUser, Content: "q"},
		}, "secret-token")
		Expect(err).NotTo(HaveOccurred())
		Expect(auth).To(Equal("Bearer secret-token"))
	})

	It("should substitute zero for omitted usage", func() {
		newAdapter(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
		})

		res, err := adapter.Invoke(context.Background(), desc, nil, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Usage.Total()).To(BeZero())
	})

	It("should map a non-success response to a ProviderError", func() {
		newAdapter(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
		})

		_, err := adapter.Invoke(context.Background(), desc, nil, "k")
		Expect(err).To(HaveOccurred())
		var provErr *ProviderError
		Expect(err).To(BeAssignableToTypeOf(provErr))
		Expect(err.(*ProviderError).Status).To(Equal(http.StatusTooManyRequests))
	})

	It("should map an empty choice list to a ProtocolError", func() {
		newAdapter(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices": []}`))
		})

		_, err := adapter.Invoke(context.Background(), desc, nil, "k")
		var protoErr *ProtocolError
		Expect(err).To(BeAssignableToTypeOf(protoErr))
	})

	It("should treat a timed-out call as a ProviderError", func() {
		newAdapter(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"choices": [{"message": {"content": "late"}}]}`))
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := adapter.Invoke(ctx, desc, nil, "k")
		var provErr *ProviderError
		Expect(err).To(BeAssignableToTypeOf(provErr))
	})

	It("should inject extra headers when configured", func() {
		var referer string
		newAdapter(func(w http.ResponseWriter, r *http.Request) {
			referer = r.Header.Get("HTTP-Referer")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
		})
		adapter.headers = map[string]string{"HTTP-Referer": "https://example.com"}

		_, err := adapter.Invoke(context.Background(), desc, nil, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(referer).To(Equal("https://example.com"))
	})
})

var _ = Describe("Wire translation", func() {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "you are a kiwi"},
		{Role: openai.ChatMessageRoleUser, Content: "hello"},
		{Role: openai.ChatMessageRoleAssistant, Content: "hi"},
		{Role: openai.ChatMessageRoleUser, Content: "again"},
	}

	Describe("Gemini", func() {
		It("should lift the system message and remap assistant to model", func() {
			system, contents := toGeminiContents(msgs)
			Expect(system).To(Equal("you are a kiwi"))
			Expect(contents).To(HaveLen(3))
			Expect(string(contents[0].Role)).To(Equal("user"))
			Expect(string(contents[1].Role)).To(Equal("model"))
			Expect(contents[1].Parts[0].Text).To(Equal("hi"))
			Expect(contents[2].Parts[0].Text).To(Equal("again"))
		})

		It("should handle a conversation with no system message", func() {
			system, contents := toGeminiContents(msgs[1:])
			Expect(system).To(BeEmpty())
			Expect(contents).To(HaveLen(3))
		})
	})

	Describe("Anthropic", func() {
		It("should lift the system message out of the turn list", func() {
			system, turns := toAnthropicMessages(msgs)
			Expect(system).To(Equal("you are a kiwi"))
			Expect(turns).To(HaveLen(3))
			Expect(string(turns[0].Role)).To(Equal("user"))
			Expect(string(turns[1].Role)).To(Equal("assistant"))
			Expect(string(turns[2].Role)).To(Equal("user"))
		})
	})
})
