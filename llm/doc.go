// Package llm defines the core chat-completion domain types shared by all
// providers: messages, requests, responses, the Provider interface, and the
// unified error taxonomy.
//
// The package contains no I/O. Concrete transports live under llm/providers;
// schema-guided output handling lives in the structured package.
package llm
