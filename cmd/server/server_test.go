package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/draw"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marben/irpc"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/render"
	"github.com/SzilvasiPeter/mandelplotter/tiles"
)

func decodePNG(t *testing.T, rec *httptest.ResponseRecorder) *image.RGBA {
	t.Helper()
	decoded, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	img := image.NewRGBA(decoded.Bounds())
	draw.Draw(img, img.Rect, decoded, decoded.Bounds().Min, draw.Src)
	return img
}

func TestTCPWorkersAndHandlers(t *testing.T) {
	f := mandel.Frame{Width: 96, Height: 64, View: mandel.TripleSpiral.View(), Budget: 250, Palette: mandel.Banded}
	s, err := tiles.NewScheduler(f, 32)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	irpcServer := newIrpcServer(s)
	defer irpcServer.Close()
	go serve(irpcServer, l)

	var eps []*irpc.Endpoint
	for range 3 {
		conn, err := net.Dial("tcp", l.Addr().String())
		if err != nil {
			t.Fatalf("net.Dial: %v", err)
		}
		ep := irpc.NewEndpoint(conn, irpc.WithEndpointServices(mandel.NewRendererIrpcService(render.TileRenderer{})))
		defer ep.Close()
		eps = append(eps, ep)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	provider, err := mandel.NewImageProviderIrpcClient(eps[2])
	if err != nil {
		t.Fatalf("NewImageProviderIrpcClient: %v", err)
	}
	img, err := provider.Image(ctx)
	if err != nil {
		t.Fatalf("Image: %v, status %+v", err, s.Status())
	}
	want := render.Sequential(f)
	if !bytes.Equal(img.Pix, want.Pix) {
		t.Errorf("frame from ImageProvider differs from sequential render")
	}

	rec := httptest.NewRecorder()
	frameHandler(s)(rec, httptest.NewRequest(http.MethodGet, "/frame.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/frame.png: status %d", rec.Code)
	}
	if got := decodePNG(t, rec); !bytes.Equal(got.Pix, want.Pix) {
		t.Errorf("/frame.png differs from sequential render")
	}

	rec = httptest.NewRecorder()
	statusHandler(s)(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	var st status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode /status: %v", err)
	}
	if st.TilesDone != 6 || st.TilesTotal != 6 || st.Finished != 1 || st.TileSize != 32 {
		t.Errorf("/status: got %+v", st)
	}
	if st.TileURL != "/tile?x={x}&y={y}" {
		t.Errorf("/status TileURL: got %q", st.TileURL)
	}

	rec = httptest.NewRecorder()
	tileHandler(s)(rec, httptest.NewRequest(http.MethodGet, "/tile?x=2&y=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/tile?x=2&y=1: status %d", rec.Code)
	}
	// png drops the origin, so the decoded tile starts at 0,0
	tile := image.Rect(64, 32, 96, 64)
	if got := decodePNG(t, rec); got.Rect.Size() != tile.Size() || !bytes.Equal(got.Pix, render.Tile(f, tile).Pix) {
		t.Errorf("/tile?x=2&y=1: got %s, want tile %s of the frame", got.Rect, tile)
	}
}

func TestTileHandlerErrors(t *testing.T) {
	s, err := tiles.NewScheduler(mandel.StaticFrame(), 64)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	tests := []struct {
		url  string
		code int
	}{
		{"/tile", http.StatusBadRequest},
		{"/tile?x=1", http.StatusBadRequest},
		{"/tile?x=a&y=0", http.StatusBadRequest},
		{"/tile?x=13&y=0", http.StatusNotFound},
		{"/tile?x=0&y=-1", http.StatusNotFound},
		{"/tile?x=12&y=12", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		tileHandler(s)(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
		if rec.Code != tt.code {
			t.Errorf("%s: status %d, want %d", tt.url, rec.Code, tt.code)
		}
	}
}

func TestFrameHandlerUnfinished(t *testing.T) {
	s, err := tiles.NewScheduler(mandel.StaticFrame(), 64)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	frameHandler(s)(rec, httptest.NewRequest(http.MethodGet, "/frame.png", nil).WithContext(ctx))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/frame.png before completion: status %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestServeStopsOnClose(t *testing.T) {
	s, err := tiles.NewScheduler(mandel.StaticFrame(), 64)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer l.Close()

	irpcServer := newIrpcServer(s)
	served := make(chan error, 1)
	go func() { served <- irpcServer.Serve(l) }()

	// a connected worker must not keep the server from closing
	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("net.Dial: %v", err)
	}
	ep := irpc.NewEndpoint(conn, irpc.WithEndpointServices(mandel.NewRendererIrpcService(render.TileRenderer{})))
	defer ep.Close()

	irpcServer.Close()
	select {
	case err := <-served:
		if !errors.Is(err, irpc.ErrServerClosed) {
			t.Errorf("Serve: got %v, want %v", err, irpc.ErrServerClosed)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return after Close")
	}
}
