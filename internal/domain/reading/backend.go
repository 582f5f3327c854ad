package reading

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sardonia/theveil/pkg/util"
)

// Backend turns a reading request into generated JSON text. Two variants
// conform: the embedded model and the deterministic stub.
type Backend interface {
	GenerateJSON(ctx context.Context, req Request) (string, error)
	GenerateDashboardJSON(ctx context.Context, req Request) (string, error)
}

// LoadedBackend bundles a freshly constructed model backend with the
// metadata the controller records on a successful load.
type LoadedBackend struct {
	Backend   Backend
	ModelPath string
	SizeBytes int64
}

// Loader constructs the real model backend. Supplied by the host; the
// controller never knows where the model file lives.
type Loader interface {
	Load(ctx context.Context) (LoadedBackend, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (LoadedBackend, error)

func (f LoaderFunc) Load(ctx context.Context) (LoadedBackend, error) {
	return f(ctx)
}

// StubBackend serves synthesizer output through the Backend contract. Its
// generation never fails.
type StubBackend struct {
	Now func() time.Time
}

func (b StubBackend) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return util.NowUTC()
}

func (b StubBackend) GenerateJSON(_ context.Context, req Request) (string, error) {
	payload, err := json.Marshal(Synthesize(req, b.now()))
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (b StubBackend) GenerateDashboardJSON(_ context.Context, req Request) (string, error) {
	payload, err := json.Marshal(SynthesizeDashboard(req, b.now()))
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

var _ Backend = StubBackend{}
