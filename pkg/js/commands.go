// Package js describes commands the live client executes in the browser.
//
// Commands are plain data pushed over the socket; the client maps each op to
// a browser API call. Nothing here produces executable script.
package js

// Event is the socket event carrying a command batch.
const Event = "js"

// Op names understood by the client.
const (
	OpOpen       = "open"
	OpCopy       = "copy"
	OpStorageSet = "storage_set"
	OpScrollLock = "scroll_lock"
	OpSubmitForm = "submit_form"
	OpFocus      = "focus"
)

// Command is one client-side action.
type Command struct {
	Op   string         `json:"op" msgpack:"op"`
	Args map[string]any `json:"args,omitempty" msgpack:"args,omitempty"`
}

// Commands is an ordered batch executed in sequence.
type Commands []Command

// Payload returns the batch in the shape pushed to the client.
func (cs Commands) Payload() map[string]any {
	list := make([]any, len(cs))
	for i, c := range cs {
		entry := map[string]any{"op": c.Op}
		if len(c.Args) > 0 {
			entry["args"] = c.Args
		}
		list[i] = entry
	}
	return map[string]any{"cmds": list}
}

// JS is the namespace for client commands.
var JS = jsNamespace{}

type jsNamespace struct{}

// Open opens url in a new browsing context without a back-reference
// (noopener, noreferrer).
func (jsNamespace) Open(url string) Command {
	return Command{Op: OpOpen, Args: map[string]any{
		"url":      url,
		"target":   "_blank",
		"features": "noopener,noreferrer",
	}}
}

// Copy writes text to the clipboard, falling back to a hidden textarea and
// execCommand when the async clipboard API is unavailable.
func (jsNamespace) Copy(text string) Command {
	return Command{Op: OpCopy, Args: map[string]any{"text": text}}
}

// StorageSet persists a value in the browser's localStorage. Failures are
// ignored by the client.
func (jsNamespace) StorageSet(key, value string) Command {
	return Command{Op: OpStorageSet, Args: map[string]any{"key": key, "value": value}}
}

// ScrollLock suspends or restores page scrolling.
func (jsNamespace) ScrollLock(locked bool) Command {
	return Command{Op: OpScrollLock, Args: map[string]any{"locked": locked}}
}

// SubmitForm posts a single-field form to action in a new browsing context
// and does not wait for the result.
func (jsNamespace) SubmitForm(action, field, value string) Command {
	return Command{Op: OpSubmitForm, Args: map[string]any{
		"action": action,
		"method": "POST",
		"target": "_blank",
		"fields": map[string]any{field: value},
	}}
}

// Focus moves focus to the first element matching selector.
func (jsNamespace) Focus(selector string) Command {
	return Command{Op: OpFocus, Args: map[string]any{"selector": selector}}
}
