package upscale

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
)

// DefaultPublisher is the namespace assumed for bare model identifiers.
const DefaultPublisher = "eugenesiow"

// ErrUnsupportedModel is returned when a model identifier matches no known
// family. Upstream validation makes this unreachable from the CLI, but the
// loader still guards against it.
var ErrUnsupportedModel = errors.New("unsupported model")

// SupportedModels lists every short model identifier the loader accepts, in
// the order they are reported to the user.
var SupportedModels = []string{
	"drln",
	"drln-bam",
	"edsr",
	"msrn",
	"mdsr",
	"msrn-bam",
	"edsr-base",
	"mdsr-bam",
	"awsrn-bam",
	"a2n",
	"carn",
	"carn-bam",
	"pan",
	"pan-bam",
}

// Model maps a decoded input image to its upscaled counterpart. Instances
// are loaded once per run and shared read-only across every file in a batch.
type Model interface {
	Upscale(img image.Image) (image.Image, error)
	Scale() int
}

// familyBuilder constructs a pretrained instance of one model family.
type familyBuilder func(h *Hub, ref string, scale int) (Model, error)

// families maps each short identifier to its family constructor. A family
// serves both its base and "-bam" aliases where those exist.
var families = map[string]familyBuilder{
	"drln":      newDrln,
	"drln-bam":  newDrln,
	"edsr":      newEdsr,
	"edsr-base": newEdsr,
	"msrn":      newMsrn,
	"msrn-bam":  newMsrn,
	"mdsr":      newMdsr,
	"mdsr-bam":  newMdsr,
	"awsrn-bam": newAwsrn,
	"a2n":       newA2n,
	"carn":      newCarn,
	"carn-bam":  newCarn,
	"pan":       newPan,
	"pan-bam":   newPan,
}

// IsSupported reports whether name is a member of the supported model set.
func IsSupported(name string) bool {
	_, ok := families[name]
	return ok
}

// FullReference prefixes a bare model identifier with the default publisher
// namespace. Identifiers that already carry a namespace pass through.
func FullReference(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return DefaultPublisher + "/" + name
}

func newDrln(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("drln", ref, scale, resize.Lanczos3)
}

func newEdsr(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("edsr", ref, scale, resize.NearestNeighbor)
}

func newMsrn(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("msrn", ref, scale, resize.Bicubic)
}

func newMdsr(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("mdsr", ref, scale, resize.MitchellNetravali)
}

func newAwsrn(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("awsrn", ref, scale, resize.Lanczos2)
}

func newA2n(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("a2n", ref, scale, resize.Bilinear)
}

func newCarn(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("carn", ref, scale, resize.Bilinear)
}

func newPan(h *Hub, ref string, scale int) (Model, error) {
	return h.pretrained("pan", ref, scale, resize.NearestNeighbor)
}

// srModel is a loaded super-resolution model: an interpolation kernel that
// performs the raw pixel-dimension increase plus a pretrained convolution
// network refining the result.
type srModel struct {
	family string
	scale  int
	kernel resize.InterpolationFunction
	net    *network
}

func (m *srModel) Scale() int { return m.scale }

func (m *srModel) Upscale(img image.Image) (image.Image, error) {
	b := img.Bounds()
	up := resize.Resize(uint(b.Dx()*m.scale), uint(b.Dy()*m.scale), img, m.kernel)
	if m.net == nil || m.net.empty() {
		return up, nil
	}
	out, err := m.net.refine(up)
	if err != nil {
		return nil, fmt.Errorf("%s inference: %w", m.family, err)
	}
	return out, nil
}
