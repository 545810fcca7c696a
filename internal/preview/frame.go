// Package preview renders model-supplied HTML inside an isolated browsing
// context. The payload is treated as an opaque full document: it is replaced
// wholesale on every change, never patched, and never sanitized. Isolation
// comes from the iframe sandbox, which lets scripts run but denies access to
// the parent's storage, cookies, and navigation.
package preview

import (
	"fmt"
	"html/template"
	"io"
	"sync"
)

// hostDocument embeds the payload via srcdoc so the iframe never receives a
// same-origin URL to resolve.
const hostDocument = `<!DOCTYPE html>
<html>
<head><title>Preview</title></head>
<body style="margin:0">
<iframe sandbox="allow-scripts" srcdoc="{{.}}" style="width:100%;min-height:400px;border:1px solid #ccc"></iframe>
</body>
</html>
`

var hostTemplate = template.Must(template.New("host").Parse(hostDocument))

// Frame holds the current HTML payload of the preview surface and fans out
// full-replacement updates to subscribers.
type Frame struct {
	mu   sync.RWMutex
	html string
	subs map[chan string]struct{}
}

// NewFrame creates an empty Frame.
func NewFrame() *Frame {
	return &Frame{subs: make(map[chan string]struct{})}
}

// Set replaces the payload wholesale and notifies every subscriber. A slow
// subscriber only ever sees the latest payload; intermediate ones are
// dropped, matching the replace-not-patch contract.
func (f *Frame) Set(html string) {
	f.mu.Lock()
	f.html = html
	for ch := range f.subs {
		select {
		case ch <- html:
		default:
			// Drain the stale payload and replace it.
			select {
			case <-ch:
			default:
			}
			ch <- html
		}
	}
	f.mu.Unlock()
}

// HTML returns the current payload.
func (f *Frame) HTML() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.html
}

// Subscribe registers a channel receiving each replacement payload.
func (f *Frame) Subscribe() chan string {
	ch := make(chan string, 1)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

// Subscribers reports the number of registered subscribers.
func (f *Frame) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Unsubscribe removes a channel registered with Subscribe.
func (f *Frame) Unsubscribe(ch chan string) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}

// WriteTo renders the host document embedding the current payload in the
// sandboxed iframe.
func (f *Frame) WriteTo(w io.Writer) error {
	if err := hostTemplate.Execute(w, f.HTML()); err != nil {
		return fmt.Errorf("failed to render preview host document: %w", err)
	}
	return nil
}
