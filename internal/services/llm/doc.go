// Package llm wraps an OpenAI-compatible chat completion API for the baking
// assistant endpoints: explaining sourdough terminology and sketching recipe
// ideas. Transient upstream failures retry with bounded backoff, honoring
// Retry-After when the provider sends one.
package llm
