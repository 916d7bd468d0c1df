// Package deepseek provides the DeepSeek chat-completion provider.
//
// DeepSeek exposes an OpenAI-compatible API, so the package embeds
// openaicompat.Provider and customizes only the differences:
//
//   - base URL defaults to https://api.deepseek.com
//   - chat endpoint is /chat/completions (no /v1 prefix)
//   - fallback model is deepseek-chat
//
// DeepSeek has no native structured-output request parameter. Schema-guided
// output is obtained by pairing this provider with the structured package,
// which embeds formatting instructions in the prompt and validates the
// response.
package deepseek
