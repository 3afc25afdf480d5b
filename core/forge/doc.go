// Package forge derives typed values from language model responses. A
// Forge[T] owns a prompt template, a response model for T and a validator,
// and drives a send/extract/validate loop against a provider until a
// response decodes into T or the retry budget runs out. Validation failures
// feed back into the prompt so the model can correct itself on the next
// attempt.
package forge
