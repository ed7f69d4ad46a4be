// Package bridge exposes a small request/response channel pair so a
// presentation layer (desktop shell, RPC server) can query the engine
// without importing its services directly.
package bridge

import (
	"context"

	"gitcms/internal/cms"
	"gitcms/internal/model"
)

// Request asks the engine one question. ID is echoed back on the response
// so callers can multiplex.
type Request struct {
	ID      string
	Command string
	// ProjectID scopes project-bound commands.
	ProjectID string
	List      cms.ListOptions
}

// Response answers one request. Exactly one of Data and Err is set.
type Response struct {
	ID   string
	Data any
	Err  error
}

// Bridge serves requests sequentially from its request channel.
type Bridge struct {
	engine    *cms.Engine
	requests  chan Request
	responses chan Response
}

func New(engine *cms.Engine) *Bridge {
	return &Bridge{
		engine:    engine,
		requests:  make(chan Request),
		responses: make(chan Response),
	}
}

func (b *Bridge) Requests() chan<- Request   { return b.requests }
func (b *Bridge) Responses() <-chan Response { return b.responses }

// Serve answers requests until ctx is canceled. Run it on its own
// goroutine.
func (b *Bridge) Serve(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-b.requests:
			resp := b.handle(req)
			select {
			case <-ctx.Done():
				return
			case b.responses <- resp:
			}
		}
	}
}

func (b *Bridge) handle(req Request) Response {
	resp := Response{ID: req.ID}
	switch req.Command {
	case "project:count":
		resp.Data, resp.Err = b.engine.Projects.Count()
	case "project:list":
		resp.Data, resp.Err = b.engine.Projects.List(req.List)
	case "project:read":
		resp.Data, resp.Err = b.engine.Projects.Read(req.ProjectID)
	case "asset:list":
		resp.Data, resp.Err = b.engine.Assets.List(req.ProjectID, req.List)
	default:
		resp.Err = model.NewError(model.KindValidation, "bridge.handle",
			"command", req.Command)
	}
	return resp
}
