package runtime

import "context"

// CannedClient is an LLMClient that returns a single fixed response
// regardless of the request, backing the CLI's --mock-llm override so a
// workflow can be exercised end-to-end without network access or an API
// key.
type CannedClient struct {
	Response string
}

func (c CannedClient) Complete(_ context.Context, _ LLMRequest) (string, error) {
	return c.Response, nil
}
