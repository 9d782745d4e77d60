// Package model defines the gateway boundary between agent loops and language
// model providers: a role/content Message transcript, a provider-agnostic
// Config, and the Model interface returning a single assistant reply per call.
// Provider adapters live in subpackages (model/openai, model/anthropic);
// MockModel and ScriptedModel support tests and offline examples.
package model
