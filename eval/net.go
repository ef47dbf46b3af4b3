package eval

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"gridiron/game"
)

const (
	defaultBatchSize     = 64
	defaultFlushInterval = time.Millisecond
	defaultNetTimeout    = 250 * time.Millisecond
)

// ErrNetClosed is returned for evaluations submitted after Close.
var ErrNetClosed = errors.New("value network closed")

type netRequest struct {
	spatial    []float32
	nonSpatial []float32
	resp       chan netResponse
}

type netResponse struct {
	home float64
	away float64
	err  error
}

// Net scores states with the exported value network through ONNX Runtime.
// Concurrent search workers submit single states; a background loop batches
// them onto one session so the model runs at tensor width, not one by one.
type Net struct {
	session  *ort.DynamicAdvancedSession
	requests chan netRequest
	done     chan struct{}
	stopped  chan struct{}

	batchSize int
	flush     time.Duration
	timeout   time.Duration
	library   string
}

// NetOption configures a Net.
type NetOption func(*Net)

// WithBatchSize caps how many pending evaluations one model run serves.
func WithBatchSize(n int) NetOption {
	return func(net *Net) {
		if n > 0 {
			net.batchSize = n
		}
	}
}

// WithFlushInterval sets how long a partial batch may wait for company.
func WithFlushInterval(d time.Duration) NetOption {
	return func(net *Net) {
		if d > 0 {
			net.flush = d
		}
	}
}

// WithRequestTimeout bounds one evaluation end to end, so a stalled model
// run cannot eat a whole search budget.
func WithRequestTimeout(d time.Duration) NetOption {
	return func(net *Net) {
		if d > 0 {
			net.timeout = d
		}
	}
}

// WithSharedLibrary points the runtime at a specific onnxruntime shared
// library instead of the ORT_SHARED_LIBRARY_PATH environment variable.
func WithSharedLibrary(path string) NetOption {
	return func(net *Net) { net.library = path }
}

var ortInitOnce sync.Once
var ortInitErr error

// NewNet loads the value network from modelPath and starts the batch loop.
func NewNet(modelPath string, opts ...NetOption) (*Net, error) {
	net := &Net{
		batchSize: defaultBatchSize,
		flush:     defaultFlushInterval,
		timeout:   defaultNetTimeout,
	}
	for _, opt := range opts {
		opt(net)
	}

	if net.library == "" {
		net.library = os.Getenv("ORT_SHARED_LIBRARY_PATH")
	}
	if net.library != "" {
		ort.SetSharedLibraryPath(net.library)
	}
	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	defer options.Destroy()
	// Search workers saturate the CPU already; keep the model single-threaded.
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"spatial_input", "non_spatial_input"},
		[]string{"output"},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("load value network: %w", err)
	}

	net.session = session
	net.requests = make(chan netRequest, net.batchSize*2)
	net.done = make(chan struct{})
	net.stopped = make(chan struct{})
	go net.batchLoop()
	return net, nil
}

// Close stops the batch loop, fails any pending evaluations, and releases
// the session.
func (n *Net) Close() error {
	close(n.done)
	<-n.stopped
	return n.session.Destroy()
}

func (n *Net) Evaluate(s *game.State) (float64, float64, error) {
	req := netRequest{
		spatial:    SpatialFeatures(s),
		nonSpatial: NonSpatialFeatures(s),
		resp:       make(chan netResponse, 1),
	}

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()

	select {
	case n.requests <- req:
	case <-n.done:
		return 0, 0, ErrNetClosed
	case <-timer.C:
		return 0, 0, fmt.Errorf("value network queue full after %s", n.timeout)
	}

	select {
	case resp := <-req.resp:
		return resp.home, resp.away, resp.err
	case <-timer.C:
		return 0, 0, fmt.Errorf("value network run exceeded %s", n.timeout)
	}
}

func (n *Net) batchLoop() {
	defer close(n.stopped)

	batch := make([]netRequest, 0, n.batchSize)
	spatial := make([]float32, 0, n.batchSize*SpatialSize)
	nonSpatial := make([]float32, 0, n.batchSize*NumNonSpatial)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		n.runBatch(batch, spatial, nonSpatial)
		batch = batch[:0]
		spatial = spatial[:0]
		nonSpatial = nonSpatial[:0]
	}

	ticker := time.NewTicker(n.flush)
	defer ticker.Stop()

	for {
		select {
		case req := <-n.requests:
			batch = append(batch, req)
			spatial = append(spatial, req.spatial...)
			nonSpatial = append(nonSpatial, req.nonSpatial...)
			if len(batch) >= n.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-n.done:
			for _, req := range batch {
				req.resp <- netResponse{err: ErrNetClosed}
			}
			return
		}
	}
}

func (n *Net) runBatch(batch []netRequest, spatial, nonSpatial []float32) {
	count := int64(len(batch))

	spatialTensor, err := ort.NewTensor(
		ort.NewShape(count, NumSpatialLayers, game.PitchWidth, game.PitchHeight), spatial)
	if err != nil {
		failBatch(batch, err)
		return
	}
	defer spatialTensor.Destroy()

	nonSpatialTensor, err := ort.NewTensor(ort.NewShape(count, NumNonSpatial), nonSpatial)
	if err != nil {
		failBatch(batch, err)
		return
	}
	defer nonSpatialTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(count, 2))
	if err != nil {
		failBatch(batch, err)
		return
	}
	defer outputTensor.Destroy()

	err = n.session.Run(
		[]ort.Value{spatialTensor, nonSpatialTensor},
		[]ort.Value{outputTensor},
	)
	if err != nil {
		failBatch(batch, err)
		return
	}

	out := outputTensor.GetData()
	for i, req := range batch {
		req.resp <- netResponse{home: float64(out[2*i]), away: float64(out[2*i+1])}
	}
}

func failBatch(batch []netRequest, err error) {
	for _, req := range batch {
		req.resp <- netResponse{err: err}
	}
}
