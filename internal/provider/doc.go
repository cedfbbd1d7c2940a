// Package provider sends a generation payload to the remote model service.
//
// Two backends are available, selected by the resolved api setting:
//
//   - responses (default): a single POST of the payload, unchanged, to
//     {endpoint}/responses with bearer authentication. The raw envelope is
//     returned for the extract package to validate.
//   - chat: the same two messages sent through an Eino OpenAI ChatModel
//     against the chat completions API. Eino unwraps the envelope, so only
//     the generated text is returned.
//
// Neither backend retries. Any non-2xx status or connection failure is
// returned as a *TransportError. The only timeout is the one carried by the
// caller's context.
//
// Render produces the dry-run view of a payload without any network access.
package provider
