package main

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/SzilvasiPeter/mandelplotter/remote"
	"github.com/SzilvasiPeter/mandelplotter/tiles"
)

// webServer creates the http server exposing the websocket worker endpoint,
// the finished frame, finished tiles and the render progress. Websocket
// connections are handed out by the returned listener.
func webServer(ctx context.Context, addr string, s *tiles.Scheduler) (*remote.Listener, *http.Server) {
	l := remote.NewListener(ctx, addr+"/ws")
	mux := http.NewServeMux()
	mux.Handle("/ws", l)
	mux.HandleFunc("/frame.png", frameHandler(s))
	mux.HandleFunc("/tile", tileHandler(s))
	mux.HandleFunc("/status", statusHandler(s))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://%s", addr)
	return l, srv
}

// frameHandler blocks until the frame is complete and writes it as PNG.
func frameHandler(s *tiles.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := s.Image(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			log.Printf("frame.png: %v", err)
		}
	}
}

// tileHandler writes the finished tile in column x and row y as PNG, so a
// page can show the frame while it is being rendered.
func tileHandler(s *tiles.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, errX := strconv.Atoi(r.URL.Query().Get("x"))
		y, errY := strconv.Atoi(r.URL.Query().Get("y"))
		if err := errors.Join(errX, errY); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		img, err := s.TileImage(x, y)
		switch {
		case errors.Is(err, tiles.ErrNoTile):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			log.Printf("tile: %v", err)
		}
	}
}

// tileURL is where /tile serves the tile in column {x} and row {y}.
const tileURL = "/tile?x={x}&y={y}"

type status struct {
	tiles.Status
	TileURL string
}

func statusHandler(s *tiles.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status{Status: s.Status(), TileURL: tileURL}); err != nil {
			log.Printf("status: %v", err)
		}
	}
}
