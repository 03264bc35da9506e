package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/marben/irpc"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/remote"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		args []string
		want config
	}{
		{nil, config{addr: ":8081"}},
		{[]string{"-addr", "ws://localhost:8080/ws"}, config{addr: "ws://localhost:8080/ws"}},
		{[]string{"-addr", "10.0.0.7:9000", "-o", "frame.png"}, config{addr: "10.0.0.7:9000", out: "frame.png"}},
	}
	for _, tt := range tests {
		got, err := parseFlags(tt.args)
		if err != nil {
			t.Errorf("parseFlags(%q): %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFlags(%q): got %+v, want %+v", tt.args, got, tt.want)
		}
	}

	for _, args := range [][]string{
		{"-frame", "http://localhost:8080/frame.png"},
		{"-o"},
		{"extra"},
	} {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%q): expected error", args)
		}
	}
}

func TestDialTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer l.Close()

	conn, err := dial(context.Background(), l.Addr().String())
	if err != nil {
		t.Fatalf("dial(%s): %v", l.Addr(), err)
	}
	defer conn.Close()

	if conn.RemoteAddr().Network() != "tcp" {
		t.Errorf("dial(%s): network %q, want tcp", l.Addr(), conn.RemoteAddr().Network())
	}
	accepted, err := l.Accept()
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	accepted.Close()
}

func TestDialWebsocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := remote.NewListener(ctx, "test/ws")
	defer l.Close()
	srv := httptest.NewServer(l)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := dial(ctx, wsURL)
	if err != nil {
		t.Fatalf("dial(%s): %v", wsURL, err)
	}
	defer conn.Close()

	accepted, err := l.Accept()
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	defer accepted.Close()

	go conn.Write([]byte("tile"))
	buf := make([]byte, 4)
	accepted.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := accepted.Read(buf); err != nil || string(buf) != "tile" {
		t.Errorf("read over websocket: got %q, %v", buf, err)
	}
}

func TestDialRouting(t *testing.T) {
	// a plain http server rejects the websocket handshake, which only a
	// websocket dial reports as such
	srv := httptest.NewServer(nil)
	defer srv.Close()

	_, err := dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	if err == nil || !strings.Contains(err.Error(), "websocket.Dial") {
		t.Errorf("dial(ws://...): got %v, want websocket.Dial error", err)
	}

	conn, err := dial(context.Background(), srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("dial(%s): %v", srv.Listener.Addr(), err)
	}
	conn.Close()
}

type staticProvider struct {
	img *image.RGBA
	err error
}

func (p staticProvider) Image(context.Context) (*image.RGBA, error) {
	return p.img, p.err
}

func serveProvider(t *testing.T, p mandel.ImageProvider) *irpc.Endpoint {
	t.Helper()
	server, worker := net.Pipe()
	serverEp := irpc.NewEndpoint(server, irpc.WithEndpointServices(mandel.NewImageProviderIrpcService(p)))
	workerEp := irpc.NewEndpoint(worker)
	t.Cleanup(func() {
		workerEp.Close()
		serverEp.Close()
	})
	return workerEp
}

func TestFetchFrame(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 3, 2))
	want.SetRGBA(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	got, err := fetchFrame(context.Background(), serveProvider(t, staticProvider{img: want}))
	if err != nil {
		t.Fatalf("fetchFrame: %v", err)
	}
	if got.Rect != want.Rect || !bytes.Equal(got.Pix, want.Pix) {
		t.Errorf("fetchFrame: got %v %v, want %v %v", got.Rect, got.Pix, want.Rect, want.Pix)
	}
}

func TestFetchFrameError(t *testing.T) {
	ep := serveProvider(t, staticProvider{err: errors.New("frame abandoned")})
	if _, err := fetchFrame(context.Background(), ep); err == nil || !strings.Contains(err.Error(), "frame abandoned") {
		t.Errorf("fetchFrame: got %v, want provider error", err)
	}
}

func TestFetchFrameServerGone(t *testing.T) {
	server, worker := net.Pipe()
	ep := irpc.NewEndpoint(worker)
	defer ep.Close()
	server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := fetchFrame(ctx, ep); err == nil {
		t.Errorf("fetchFrame with the server gone: expected error")
	}
}
