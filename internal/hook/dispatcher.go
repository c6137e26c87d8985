package hook

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Dispatcher fans events out to subscribed hooks in the background.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	wg       sync.WaitGroup

	// OnResult, when set, receives every hook outcome. It is called from the
	// hook's goroutine.
	OnResult func(h *Hook, resp *Response, err error)
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(manager *Manager, executor *Executor) *Dispatcher {
	return &Dispatcher{manager: manager, executor: executor}
}

// Dispatch starts every hook subscribed to event and returns immediately.
// data is marshalled once and shared by all hooks. It returns the number of
// hooks started.
func (d *Dispatcher) Dispatch(event string, data any) int {
	hooks := d.manager.Subscribed(event)
	if len(hooks) == 0 {
		return 0
	}

	req := &Request{Event: event, Timestamp: time.Now()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("Failed to encode %s event for hooks: %v", event, err)
			return 0
		}
		req.Data = raw
	}

	for _, h := range hooks {
		d.wg.Add(1)
		go func(h *Hook) {
			defer d.wg.Done()

			resp, err := d.executor.Execute(h, req)
			switch {
			case err != nil:
				log.Printf("Hook %s: %v", h.Manifest.Name, err)
			case !resp.Success:
				log.Printf("Hook %s reported failure: %s", h.Manifest.Name, resp.Error)
			}
			if d.OnResult != nil {
				d.OnResult(h, resp, err)
			}
		}(h)
	}
	return len(hooks)
}

// Wait blocks until every dispatched hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
