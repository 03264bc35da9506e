// worker lends this machine's CPU to a running server.
// It connects to the server, renders the tiles it is asked for and waits for
// the finished frame, which it saves as a PNG file with -o.

package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"

	"github.com/marben/irpc"
	"github.com/marben/irpc/irpcgen"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/remote"
	"github.com/SzilvasiPeter/mandelplotter/render"
	"github.com/SzilvasiPeter/mandelplotter/sink"
)

// main is the entry point for the worker.
// It runs the worker logic and logs any fatal errors.
func main() {
	log.Printf("Starting worker...")
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

type config struct {
	addr string // tcp address or ws:// url
	out  string // where to save the finished frame, if set
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	fs.StringVar(&cfg.addr, "addr", ":8081", "server tcp address, or ws:// url of its websocket endpoint")
	fs.StringVar(&cfg.out, "o", "", "save the finished frame to this file")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	return cfg, nil
}

// run connects to the server, serves tile requests until the frame is done
// and optionally saves it. Returns an error if any step fails.
func run(cfg config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Step 1: Connect to server
	log.Printf("Connecting to server on %s...", cfg.addr)
	conn, err := dial(ctx, cfg.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	// Step 2: Create the renderer service, which the server can call to render tiles using our CPU
	renderer := render.TileRenderer{OnTileRender: func(tile image.Rectangle) { log.Printf("Rendering tile: %s", tile) }}
	ep := irpc.NewEndpoint(conn, irpc.WithEndpointServices(mandel.NewRendererIrpcService(renderer)))
	defer ep.Close()

	// Step 3: Request the fully rendered image, which blocks until the frame is done
	log.Printf("Requesting fully rendered image from server...")
	img, err := fetchFrame(ctx, ep)
	if err != nil {
		return err
	}
	if cfg.out == "" {
		log.Printf("Frame %s finished", img.Rect)
		return nil
	}

	// Step 4: Save the rendered image to a PNG file
	log.Printf("Saving rendered image to %q...", cfg.out)
	if err := sink.WritePNG(cfg.out, img); err != nil {
		return err
	}
	log.Printf("Fully rendered image saved to %q", cfg.out)
	return nil
}

func dial(ctx context.Context, addr string) (net.Conn, error) {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return remote.Dial(ctx, addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// fetchFrame asks the ImageProvider at the other end of ep for the frame.
func fetchFrame(ctx context.Context, ep irpcgen.Endpoint) (*image.RGBA, error) {
	client, err := mandel.NewImageProviderIrpcClient(ep)
	if err != nil {
		return nil, fmt.Errorf("failed to create ImageProvider client: %w", err)
	}
	img, err := client.Image(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.Image: %w", err)
	}
	return img, nil
}
