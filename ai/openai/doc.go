// Package openai implements the ai interfaces using OpenAI-compatible
// APIs via langchaingo. It works with hosted OpenAI as well as local
// servers such as Ollama, LocalAI and vLLM.
package openai
