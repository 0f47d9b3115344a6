// Package api defines the wire types of the Timeweb Cloud AI agent API.
//
// The package covers chat completions, the Responses API, conversations and
// the agent's simple call endpoint. It has zero external dependencies and
// performs no I/O. Types whose wire shape is overloaded implement custom
// JSON codecs:
//
//   - [ContentItem]: tagged union keyed by "type" (text, image_url, input_audio, file, refusal)
//   - [ChatContent]: a bare string or an array of content items
//   - [ResponseInput]: a bare string or an array of input messages
//   - [ToolChoice]: a mode string or a function selector
//
// Decoding never coerces: an unknown or mismatched discriminator fails with
// an [*Error] of kind [ErrorKindDecode]. Every failure returned by the
// client package is an [*Error] carrying one [ErrorKind].
package api
