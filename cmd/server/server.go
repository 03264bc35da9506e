// server coordinates a distributed render of one frame. It splits the frame
// into tiles and hands them to every worker that connects over TCP or
// websocket (see cmd/worker). Workers get the finished frame over the same
// connection. Over http the frame is served at /frame.png, finished tiles at
// /tile and progress at /status.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/marben/irpc"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/render"
	"github.com/SzilvasiPeter/mandelplotter/tiles"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	frame := mandel.Frame{Width: 1920, Height: 1080, Budget: 1000, Palette: mandel.Wheel}

	region := flag.String("region", "seahorse", fmt.Sprintf("region to render: %v", mandel.RegionNames()))
	palette := flag.String("palette", frame.Palette.String(), "palette: mono, banded or wheel")
	tileSize := flag.Int("tile", render.DefaultTileSize, "tile edge length in pixels")
	tcpAddr := flag.String("tcp", ":8081", "tcp address for workers")
	httpAddr := flag.String("http", ":8080", "http address for websocket workers, /frame.png, /tile and /status")
	local := flag.Int("local", 0, "tile renderers to run inside the server")
	flag.IntVar(&frame.Width, "width", frame.Width, "image width in pixels")
	flag.IntVar(&frame.Height, "height", frame.Height, "image height in pixels")
	flag.IntVar(&frame.Budget, "iterations", frame.Budget, "iteration budget per pixel")
	flag.Parse()

	r, err := mandel.LookupRegion(*region)
	if err != nil {
		return err
	}
	frame.View = r.View()
	if frame.Palette, err = mandel.ParsePalette(*palette); err != nil {
		return err
	}

	// scheduler owns the frame; every worker, local or remote, pulls tiles from it
	scheduler, err := tiles.NewScheduler(frame, *tileSize)
	if err != nil {
		return fmt.Errorf("tiles.NewScheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for range *local {
		go func() {
			if err := scheduler.Render(ctx, render.TileRenderer{}); !errors.Is(err, tiles.ErrFrameDone) {
				log.Printf("local renderer: %v", err)
			}
		}()
	}

	// irpc server with onConnect hook to plug workers into rendering
	irpcServer := newIrpcServer(scheduler)
	defer irpcServer.Close()

	// TCP
	log.Printf("tcp listening on: %s", *tcpAddr)
	tcpListener, err := net.Listen("tcp", *tcpAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	// WEBSOCKET
	websocketListener, httpServer := webServer(ctx, *httpAddr, scheduler)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("httpServer: %v", err)
		}
	}()

	// irpcServer serves both listeners, so tcp and websocket workers feed the same scheduler
	go serve(irpcServer, tcpListener)
	go serve(irpcServer, websocketListener)

	log.Printf("mb server waiting for tcp and websocket connections")
	select {
	case <-scheduler.Done():
		log.Printf("frame %dx%d finished, still serving /frame.png", frame.Width, frame.Height)
		<-ctx.Done()
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	return httpServer.Shutdown(context.Background())
}

// newIrpcServer returns an irpc server that provides the frame of s to its
// clients and uses every connected client as a worker rendering tiles of s.
func newIrpcServer(s *tiles.Scheduler) *irpc.Server {
	irpcServer := irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		go func() {
			log.Printf("got connection from: %s", ep.RemoteAddr())

			// Each client needs to provide us with mandel.Renderer so we can use it to render tiles of the frame
			rendererIrpcClient, err := mandel.NewRendererIrpcClient(ep)
			if err != nil {
				log.Printf("err: new Rendering client: %v", err)
				return
			}

			// Each connected client is used as a worker until the frame is done or the client leaves
			err = s.Render(ep.Context(), rendererIrpcClient)
			switch {
			case errors.Is(err, tiles.ErrFrameDone):
				log.Printf("worker %s idle: frame done", ep.RemoteAddr())
			case err != nil:
				log.Printf("err: render on worker %s: %v", ep.RemoteAddr(), err)
			}
		}()
	}))

	// the ImageProvider service lets workers wait for the finished frame
	irpcServer.AddService(mandel.NewImageProviderIrpcService(s))
	return irpcServer
}

func serve(srv *irpc.Server, l net.Listener) {
	if err := srv.Serve(l); !errors.Is(err, irpc.ErrServerClosed) {
		log.Printf("irpcServer.Serve %s: %v", l.Addr(), err)
	}
}
