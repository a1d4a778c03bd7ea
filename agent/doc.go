// Package agent implements the bounded tool-calling loop that lets a
// language model act on a project workspace.
//
// The loop sends the conversation plus tool schemas to an llm.Endpoint,
// executes the tool calls the model requests against a fixed registry of
// file operations, replays results back, and repeats until the model
// answers without tools or the round cap is reached. Progress surfaces
// as a typed event stream for host applications.
//
//   - Loop: the orchestrator; Chat for one-shot use, ChatStream for
//     incremental delivery.
//   - Registry / Tool: named tool definitions with schema validation
//     and panic containment at the call boundary.
//   - Event / Sink: the streamed vocabulary of status, content, tool
//     results, file operations, and terminal done/error.
//
// Tool results are strings by contract, success or failure alike, so
// every outcome can be replayed into the conversation.
package agent
