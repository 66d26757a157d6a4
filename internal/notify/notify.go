// Package notify publishes package-change events to the pub/sub endpoint
// configured as change_notifier. The endpoint itself is an external
// collaborator; this package only defines the wire record and the narrow
// interface the core calls through.
package notify

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

// Message is one wire record: a compact binary encoding of a single package
// change, batched per scan.
type Message struct {
	Comp    string
	Pkg     string
	Arch    string
	Method  byte
	FromVer string
	ToVer   string
}

func fromChange(c repoindex.Change) Message {
	return Message{
		Comp: c.Component, Pkg: c.Package, Arch: c.Arch,
		Method: byte(c.Method), FromVer: c.FromVer, ToVer: c.ToVer,
	}
}

// Notifier publishes a batch of package changes. A nil change_notifier
// configuration yields a NoOp implementation so callers never need a nil
// check.
type Notifier interface {
	Publish(ctx context.Context, changes []repoindex.Change) error
}

// NoOp drops every batch; used when change_notifier is not configured.
type NoOp struct{}

func (NoOp) Publish(context.Context, []repoindex.Change) error { return nil }

// HTTPNotifier POSTs each batch gob-encoded to a configured endpoint.
type HTTPNotifier struct {
	Endpoint string
	Client   *http.Client
}

// New builds a Notifier from the change_notifier configuration value. An
// empty endpoint yields NoOp.
func New(endpoint string) Notifier {
	if endpoint == "" {
		return NoOp{}
	}
	return &HTTPNotifier{Endpoint: endpoint, Client: http.DefaultClient}
}

func (n *HTTPNotifier) Publish(ctx context.Context, changes []repoindex.Change) error {
	if len(changes) == 0 {
		return nil
	}

	messages := make([]Message, len(changes))
	for i, c := range changes {
		messages[i] = fromChange(c)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(messages); err != nil {
		return pverr.New(pverr.IoError, "notify", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, &buf)
	if err != nil {
		return pverr.New(pverr.IoError, "notify", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := n.Client.Do(req)
	if err != nil {
		return pverr.New(pverr.IoError, "notify", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return pverr.New(pverr.IoError, "notify",
			fmt.Errorf("notifier endpoint returned status %d", resp.StatusCode))
	}
	return nil
}
