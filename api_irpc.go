package mandel

import (
	"context"
	"fmt"
	"image"

	"github.com/marben/irpc/irpcgen"
)

// Renderer and ImageProvider as irpc services. The layout follows what the
// irpc generator emits; Job and tiles are serialized field by field so a
// Frame crosses the wire without reflection.

var _RendererIrpcId = []byte{
	0x3c, 0x91, 0x0e, 0x5a, 0xd7, 0x42, 0x8b, 0x1f,
	0x64, 0xa0, 0xc3, 0x7e, 0x19, 0xf2, 0x55, 0x08,
	0xbe, 0x2d, 0x90, 0x6c, 0x41, 0xe7, 0x13, 0xaa,
	0x7f, 0x36, 0xd8, 0x02, 0x9b, 0x4e, 0xc5, 0x61,
}

var _ImageProviderIrpcId = []byte{
	0xa4, 0x17, 0x6b, 0xe9, 0x50, 0x2c, 0xf3, 0x88,
	0x0d, 0x7a, 0x39, 0xc6, 0xb1, 0x64, 0x1e, 0xd2,
	0x85, 0x4f, 0x27, 0xea, 0x93, 0x0b, 0x5c, 0x76,
	0xcf, 0x12, 0xad, 0x48, 0x6e, 0xf0, 0x31, 0x9d,
}

// RendererIrpcService serves a Renderer to the other end of an irpc endpoint.
type RendererIrpcService struct {
	impl Renderer
}

func NewRendererIrpcService(impl Renderer) *RendererIrpcService {
	return &RendererIrpcService{impl: impl}
}

func (s *RendererIrpcService) Id() []byte {
	return _RendererIrpcId
}

func (s *RendererIrpcService) GetFuncCall(funcId irpcgen.FuncId) (irpcgen.ArgDeserializer, error) {
	switch funcId {
	case 0: // RenderTile
		return func(d *irpcgen.Decoder) (irpcgen.FuncExecutor, error) {
			var args _irpc_Renderer_RenderTileReq
			if err := args.Deserialize(d); err != nil {
				return nil, err
			}
			return func(ctx context.Context) irpcgen.Serializable {
				var resp _irpc_Renderer_RenderTileResp
				resp.p0, resp.p1 = s.impl.RenderTile(ctx, args.job)
				return resp
			}, nil
		}, nil
	default:
		return nil, fmt.Errorf("function '%d' doesn't exist on service '%s'", funcId, s.Id())
	}
}

// RendererIrpcClient implements Renderer by calling the Renderer served at
// the other end of an endpoint.
type RendererIrpcClient struct {
	endpoint irpcgen.Endpoint
}

var _ Renderer = (*RendererIrpcClient)(nil)

func NewRendererIrpcClient(endpoint irpcgen.Endpoint) (*RendererIrpcClient, error) {
	if err := endpoint.RegisterClient(_RendererIrpcId); err != nil {
		return nil, fmt.Errorf("register failed: %w", err)
	}
	return &RendererIrpcClient{endpoint: endpoint}, nil
}

// RenderTile implements Renderer. A tile that arrives after ctx is done is
// dropped.
func (c *RendererIrpcClient) RenderTile(ctx context.Context, job Job) (*image.RGBA, error) {
	req := _irpc_Renderer_RenderTileReq{job: job}
	var resp _irpc_Renderer_RenderTileResp
	if err := c.endpoint.CallRemoteFunc(ctx, _RendererIrpcId, 0, req, &resp); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resp.p0 == nil && resp.p1 == nil {
		return nil, fmt.Errorf("tile %s: worker returned no image", job.Tile)
	}
	return resp.p0, resp.p1
}

// ImageProviderIrpcService serves an ImageProvider.
type ImageProviderIrpcService struct {
	impl ImageProvider
}

func NewImageProviderIrpcService(impl ImageProvider) *ImageProviderIrpcService {
	return &ImageProviderIrpcService{impl: impl}
}

func (s *ImageProviderIrpcService) Id() []byte {
	return _ImageProviderIrpcId
}

func (s *ImageProviderIrpcService) GetFuncCall(funcId irpcgen.FuncId) (irpcgen.ArgDeserializer, error) {
	switch funcId {
	case 0: // Image
		return func(d *irpcgen.Decoder) (irpcgen.FuncExecutor, error) {
			return func(ctx context.Context) irpcgen.Serializable {
				var resp _irpc_ImageProvider_ImageResp
				resp.p0, resp.p1 = s.impl.Image(ctx)
				return resp
			}, nil
		}, nil
	default:
		return nil, fmt.Errorf("function '%d' doesn't exist on service '%s'", funcId, s.Id())
	}
}

// ImageProviderIrpcClient implements ImageProvider over an endpoint.
type ImageProviderIrpcClient struct {
	endpoint irpcgen.Endpoint
}

var _ ImageProvider = (*ImageProviderIrpcClient)(nil)

func NewImageProviderIrpcClient(endpoint irpcgen.Endpoint) (*ImageProviderIrpcClient, error) {
	if err := endpoint.RegisterClient(_ImageProviderIrpcId); err != nil {
		return nil, fmt.Errorf("register failed: %w", err)
	}
	return &ImageProviderIrpcClient{endpoint: endpoint}, nil
}

func (c *ImageProviderIrpcClient) Image(ctx context.Context) (*image.RGBA, error) {
	var resp _irpc_ImageProvider_ImageResp
	if err := c.endpoint.CallRemoteFunc(ctx, _ImageProviderIrpcId, 0, irpcgen.EmptySerializable{}, &resp); err != nil {
		return nil, err
	}
	return resp.p0, resp.p1
}

type _irpc_Renderer_RenderTileReq struct {
	job Job
}

func (s _irpc_Renderer_RenderTileReq) Serialize(e *irpcgen.Encoder) error {
	if err := encJob(e, s.job); err != nil {
		return fmt.Errorf("serialize \"job\" of type Job: %w", err)
	}
	return nil
}

func (s *_irpc_Renderer_RenderTileReq) Deserialize(d *irpcgen.Decoder) error {
	if err := decJob(d, &s.job); err != nil {
		return fmt.Errorf("deserialize job of type Job: %w", err)
	}
	return nil
}

type _irpc_Renderer_RenderTileResp struct {
	p0 *image.RGBA
	p1 error
}

func (s _irpc_Renderer_RenderTileResp) Serialize(e *irpcgen.Encoder) error {
	if err := irpcgen.EncPointer(e, s.p0, "image.RGBA", encRGBA); err != nil {
		return fmt.Errorf("serialize type *image.RGBA: %w", err)
	}
	if err := encError(e, s.p1); err != nil {
		return fmt.Errorf("serialize type error: %w", err)
	}
	return nil
}

func (s *_irpc_Renderer_RenderTileResp) Deserialize(d *irpcgen.Decoder) error {
	if err := irpcgen.DecPointer(d, &s.p0, "image.RGBA", decRGBA); err != nil {
		return fmt.Errorf("deserialize type *image.RGBA: %w", err)
	}
	if err := decError(d, &s.p1); err != nil {
		return fmt.Errorf("deserialize type error: %w", err)
	}
	return nil
}

type _irpc_ImageProvider_ImageResp struct {
	p0 *image.RGBA
	p1 error
}

func (s _irpc_ImageProvider_ImageResp) Serialize(e *irpcgen.Encoder) error {
	return _irpc_Renderer_RenderTileResp(s).Serialize(e)
}

func (s *_irpc_ImageProvider_ImageResp) Deserialize(d *irpcgen.Decoder) error {
	return (*_irpc_Renderer_RenderTileResp)(s).Deserialize(d)
}

func encJob(enc *irpcgen.Encoder, j Job) error {
	f := j.Frame
	if err := irpcgen.EncInt(enc, f.Width); err != nil {
		return fmt.Errorf("serialize \"Width\" of type int: %w", err)
	}
	if err := irpcgen.EncInt(enc, f.Height); err != nil {
		return fmt.Errorf("serialize \"Height\" of type int: %w", err)
	}
	if err := encView(enc, f.View); err != nil {
		return fmt.Errorf("serialize \"View\" of type View: %w", err)
	}
	if err := irpcgen.EncInt(enc, f.Budget); err != nil {
		return fmt.Errorf("serialize \"Budget\" of type int: %w", err)
	}
	if err := irpcgen.EncUint8(enc, f.Palette); err != nil {
		return fmt.Errorf("serialize \"Palette\" of type Palette: %w", err)
	}
	if err := encRect(enc, j.Tile); err != nil {
		return fmt.Errorf("serialize \"Tile\" of type image.Rectangle: %w", err)
	}
	return nil
}

func decJob(dec *irpcgen.Decoder, j *Job) error {
	f := &j.Frame
	if err := irpcgen.DecInt(dec, &f.Width); err != nil {
		return fmt.Errorf("deserialize \"Width\" of type int: %w", err)
	}
	if err := irpcgen.DecInt(dec, &f.Height); err != nil {
		return fmt.Errorf("deserialize \"Height\" of type int: %w", err)
	}
	if err := decView(dec, &f.View); err != nil {
		return fmt.Errorf("deserialize \"View\" of type View: %w", err)
	}
	if err := irpcgen.DecInt(dec, &f.Budget); err != nil {
		return fmt.Errorf("deserialize \"Budget\" of type int: %w", err)
	}
	if err := irpcgen.DecUint8(dec, &f.Palette); err != nil {
		return fmt.Errorf("deserialize \"Palette\" of type Palette: %w", err)
	}
	if err := decRect(dec, &j.Tile); err != nil {
		return fmt.Errorf("deserialize \"Tile\" of type image.Rectangle: %w", err)
	}
	return nil
}

// encView writes both conventions' parameters regardless of Mapping, so a
// View survives the trip unchanged.
func encView(enc *irpcgen.Encoder, v View) error {
	if err := irpcgen.EncUint8(enc, v.Mapping); err != nil {
		return fmt.Errorf("serialize \"Mapping\" of type Mapping: %w", err)
	}
	for _, x := range [...]float64{
		real(v.Center), imag(v.Center),
		v.Zoom,
		v.Pan.X(), v.Pan.Y(),
		v.Bounds.Xmin, v.Bounds.Xmax, v.Bounds.Ymin, v.Bounds.Ymax,
	} {
		if err := irpcgen.EncFloat64(enc, x); err != nil {
			return fmt.Errorf("serialize float64: %w", err)
		}
	}
	return nil
}

func decView(dec *irpcgen.Decoder, v *View) error {
	if err := irpcgen.DecUint8(dec, &v.Mapping); err != nil {
		return fmt.Errorf("deserialize \"Mapping\" of type Mapping: %w", err)
	}
	var re, im float64
	for _, p := range [...]*float64{
		&re, &im,
		&v.Zoom,
		&v.Pan[0], &v.Pan[1],
		&v.Bounds.Xmin, &v.Bounds.Xmax, &v.Bounds.Ymin, &v.Bounds.Ymax,
	} {
		if err := irpcgen.DecFloat64(dec, p); err != nil {
			return fmt.Errorf("deserialize float64: %w", err)
		}
	}
	v.Center = complex(re, im)
	return nil
}

func encRect(enc *irpcgen.Encoder, r image.Rectangle) error {
	for _, x := range [...]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y} {
		if err := irpcgen.EncInt(enc, x); err != nil {
			return fmt.Errorf("serialize int: %w", err)
		}
	}
	return nil
}

func decRect(dec *irpcgen.Decoder, r *image.Rectangle) error {
	for _, p := range [...]*int{&r.Min.X, &r.Min.Y, &r.Max.X, &r.Max.Y} {
		if err := irpcgen.DecInt(dec, p); err != nil {
			return fmt.Errorf("deserialize int: %w", err)
		}
	}
	return nil
}

// encRGBA writes the bounds and the pixels without stride padding.
func encRGBA(enc *irpcgen.Encoder, img image.RGBA) error {
	if err := encRect(enc, img.Rect); err != nil {
		return fmt.Errorf("serialize \"Rect\" of type image.Rectangle: %w", err)
	}
	if err := irpcgen.EncByteSlice(enc, compactPix(&img)); err != nil {
		return fmt.Errorf("serialize \"Pix\" of type []uint8: %w", err)
	}
	return nil
}

func decRGBA(dec *irpcgen.Decoder, img *image.RGBA) error {
	if err := decRect(dec, &img.Rect); err != nil {
		return fmt.Errorf("deserialize \"Rect\" of type image.Rectangle: %w", err)
	}
	if err := irpcgen.DecByteSlice(dec, &img.Pix); err != nil {
		return fmt.Errorf("deserialize \"Pix\" of type []uint8: %w", err)
	}
	img.Stride = 4 * img.Rect.Dx()
	if len(img.Pix) != img.Stride*img.Rect.Dy() {
		return fmt.Errorf("image %s: got %d bytes of pixels", img.Rect, len(img.Pix))
	}
	return nil
}

// compactPix returns the pixels of img without stride padding.
func compactPix(img *image.RGBA) []byte {
	rowLen := 4 * img.Rect.Dx()
	if img.Stride == rowLen && len(img.Pix) == rowLen*img.Rect.Dy() {
		return img.Pix
	}
	pix := make([]byte, 0, rowLen*img.Rect.Dy())
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		off := img.PixOffset(img.Rect.Min.X, y)
		pix = append(pix, img.Pix[off:off+rowLen]...)
	}
	return pix
}

func encError(enc *irpcgen.Encoder, v error) error {
	isNil := v == nil
	if err := irpcgen.EncIsNil(enc, isNil); err != nil {
		return fmt.Errorf("serialize isNil == %t: %w", isNil, err)
	}
	if isNil {
		return nil
	}
	if err := irpcgen.EncString(enc, v.Error()); err != nil {
		return fmt.Errorf("serialize \"v.Error()\" of type string: %w", err)
	}
	return nil
}

func decError(dec *irpcgen.Decoder, s *error) error {
	var isNil bool
	if err := irpcgen.DecIsNil(dec, &isNil); err != nil {
		return fmt.Errorf("deserialize isNil: %w", err)
	}
	if isNil {
		*s = nil
		return nil
	}
	var impl _error_mandel_impl
	if err := irpcgen.DecString(dec, &impl._Error_0_); err != nil {
		return fmt.Errorf("deserialize \"_Error_0_\" string: %w", err)
	}
	*s = impl
	return nil
}

type _error_mandel_impl struct {
	_Error_0_ string
}

func (i _error_mandel_impl) Error() string {
	return i._Error_0_
}
