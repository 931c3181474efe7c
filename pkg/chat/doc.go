/*
Package chat implements the conversational side panel next to the console.

A Panel keeps the message log, builds the prompt from a Persona and the user's
preferences, and asks a Generator for the reply. Generator failures never surface as
errors: the persona's fallback text is appended instead, so the log always alternates
user and assistant turns.
*/
package chat
