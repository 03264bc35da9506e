// Package remote carries irpc endpoints over websockets.
//
// Workers reach the coordinator over TCP or websocket. Listener turns
// upgraded http requests into net.Conns, so an irpc server serves websocket
// workers with the same accept loop as TCP ones, and Dial is its worker side
// counterpart.
package remote

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/coder/websocket"
)

// maxMessage bounds a single websocket message. irpc writes a pixel slice in
// one piece, so it must hold a whole frame.
const maxMessage = 64 << 20

// Listener implements net.Listener for websocket connections accepted by
// its ServeHTTP method.
type Listener struct {
	ch     chan *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

var (
	_ net.Listener = (*Listener)(nil)
	_ http.Handler = (*Listener)(nil)
)

// NewListener returns a listener reporting addr as its address.
func NewListener(ctx context.Context, addr string) *Listener {
	ctx, cancel := context.WithCancel(ctx)
	return &Listener{
		ch:     make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr{addr: addr},
	}
}

// ServeHTTP upgrades the request to a websocket and queues it for Accept.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("websocket accept: %v", err)
		return
	}

	select {
	case l.ch <- c:
	case <-l.ctx.Done():
		c.Close(websocket.StatusGoingAway, "listener closed")
	}
}

func (l *Listener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		c.SetReadLimit(maxMessage)
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *Listener) Addr() net.Addr {
	return l.addr
}

func (l *Listener) Close() error {
	l.cancel()
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}

// Dial connects to a websocket endpoint such as ws://localhost:8080/ws and
// returns it as a net.Conn carrying binary messages.
func Dial(ctx context.Context, url string) (net.Conn, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial %s: %w", url, err)
	}
	c.SetReadLimit(maxMessage)
	return websocket.NetConn(context.WithoutCancel(ctx), c, websocket.MessageBinary), nil
}
