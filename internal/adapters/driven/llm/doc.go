// Package llm holds the HTTP plumbing shared by the LLM provider adapters
// in its subpackages: request sending and the APIError type the resilient
// decorator uses to decide what to retry.
package llm
