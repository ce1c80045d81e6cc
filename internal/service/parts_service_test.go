package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/pkg/catalog"
	"ai-autoparts-be/pkg/partsagent"
)

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }

type fakeVehicleService struct {
	resolved *ResolvedVehicle
	err      error
}

func (f *fakeVehicleService) Resolve(_ context.Context, _ dto.VehicleQuery) (*ResolvedVehicle, error) {
	return f.resolved, f.err
}

// fakeRunner tracks concurrency and fails on request.
type fakeRunner struct {
	failFor map[string]error
	outcome func(part string) *partsagent.Outcome

	mu         sync.Mutex
	inFlight   int32
	maxSeen    int32
	totalCalls int32
}

func (f *fakeRunner) Run(_ context.Context, in partsagent.Input) (*partsagent.Outcome, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	atomic.AddInt32(&f.totalCalls, 1)

	f.mu.Lock()
	if cur > f.maxSeen {
		f.maxSeen = cur
	}
	f.mu.Unlock()

	if err, ok := f.failFor[in.PartDescription]; ok {
		return nil, err
	}
	if f.outcome != nil {
		return f.outcome(in.PartDescription), nil
	}
	return &partsagent.Outcome{
		Status:     partsagent.StatusSuccess,
		PartName:   "matched " + in.PartDescription,
		OEMNumbers: []string{},
	}, nil
}

type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func testResolvedVehicle(t *testing.T) *ResolvedVehicle {
	t.Helper()
	tree, err := catalog.ParseTree([]byte(`{"100006": {"text": "Brake System", "children": {"100032": {"text": "Brake Pad Set", "children": []}}}}`))
	require.NoError(t, err)
	return &ResolvedVehicle{
		VehicleId:       19942,
		CountryFilterId: 62,
		Categories:      tree,
	}
}

func TestPartsLookupReturnsOneResultPerPartInOrder(t *testing.T) {
	parts := make([]string, 25)
	for i := range parts {
		parts[i] = fmt.Sprintf("part %02d", i)
	}

	runner := &fakeRunner{}
	pub := &capturingPublisher{}
	svc := NewPartsService(&fakeVehicleService{resolved: testResolvedVehicle(t)}, runner, pub, nil, testLogger{})

	resp, err := svc.Lookup(context.Background(), &dto.PartsLookupRequest{
		Vehicle: dto.VehicleQuery{VehicleId: 19942},
		Parts:   parts,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, len(parts))
	for i, res := range resp.Results {
		assert.Equal(t, parts[i], res.PartDescription)
		assert.Equal(t, string(partsagent.StatusSuccess), res.Status)
	}
	assert.EqualValues(t, len(parts), runner.totalCalls)
	assert.LessOrEqual(t, int(runner.maxSeen), maxPartsWorkers)

	// one history message per part
	assert.Len(t, pub.payloads, len(parts))
}

func TestPartsLookupAbsorbsItemFailures(t *testing.T) {
	runner := &fakeRunner{
		failFor: map[string]error{"bad part": errors.New("upstream exploded")},
	}
	svc := NewPartsService(&fakeVehicleService{resolved: testResolvedVehicle(t)}, runner, &capturingPublisher{}, nil, testLogger{})

	resp, err := svc.Lookup(context.Background(), &dto.PartsLookupRequest{
		Vehicle: dto.VehicleQuery{VehicleId: 19942},
		Parts:   []string{"good part", "bad part", "another good part"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, string(partsagent.StatusSuccess), resp.Results[0].Status)
	assert.Equal(t, string(partsagent.StatusError), resp.Results[1].Status)
	assert.Equal(t, "upstream exploded", resp.Results[1].Message)
	assert.NotNil(t, resp.Results[1].OemNumbers)
	assert.Equal(t, string(partsagent.StatusSuccess), resp.Results[2].Status)
}

func TestPartsLookupFailsWhenVehicleCannotBeResolved(t *testing.T) {
	svc := NewPartsService(&fakeVehicleService{err: errors.New("manufacturer not found")}, &fakeRunner{}, &capturingPublisher{}, nil, testLogger{})

	_, err := svc.Lookup(context.Background(), &dto.PartsLookupRequest{
		Vehicle: dto.VehicleQuery{Manufacturer: "Atlantis Motors"},
		Parts:   []string{"brake pad"},
	})
	assert.Error(t, err)
}

func TestPartsWorkerCount(t *testing.T) {
	assert.Equal(t, minPartsWorkers, partsWorkerCount(0))
	assert.Equal(t, minPartsWorkers, partsWorkerCount(1))
	assert.Equal(t, 2, partsWorkerCount(2))
	assert.Equal(t, 7, partsWorkerCount(7))
	assert.Equal(t, maxPartsWorkers, partsWorkerCount(10))
	assert.Equal(t, maxPartsWorkers, partsWorkerCount(100))
}
