// Package providers implements the Adapter capability contract for each
// supported review backend.
//
// Three families: command-line-tool backed (claude), local-service backed
// (ollama), and hosted APIs (openai, deepseek, gemini), plus a deterministic
// mock. Every adapter exposes Validate and Execute with one result shape;
// selection goes through the closed registry in [New], keyed by canonical
// provider name. Credentials and base URLs arrive as explicit configuration,
// never read from the environment.
package providers
