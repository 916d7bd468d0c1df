// Package providers holds the pieces shared by all concrete providers:
// OpenAI-compatible wire types, HTTP error mapping, model selection, and
// per-provider configuration structs with construction-time validation.
package providers
