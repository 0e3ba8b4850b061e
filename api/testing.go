// Package api
// Author: momentics
//
// Mock/testing utilities for core contracts; extendable for new interfaces.

package api

// MockTransport is a test and mock-friendly implementation of Transport.
type MockTransport struct {
	CreateTXFunc            func(StreamParams) (StreamId, error)
	CreateRXFunc            func(StreamParams) (StreamId, error)
	DestroyFunc             func(StreamId) error
	GetNextChunkFunc        func(StreamId) (ChunkSlot, error)
	CommitChunkFunc         func(StreamId, ChunkSlot, uint64) error
	GetNextCompletionFunc   func(StreamId) (Completion, error)
	AttachFlowFunc          func(StreamId, Flow) error
	DetachFlowFunc          func(StreamId, FlowTag) error
	RequestNotificationFunc func(StreamId) error
	FeaturesFunc            func() TransportFeatures
	CloseFunc               func() error
}

var _ Transport = (*MockTransport)(nil)

func (m *MockTransport) CreateTX(p StreamParams) (StreamId, error) { return m.CreateTXFunc(p) }
func (m *MockTransport) CreateRX(p StreamParams) (StreamId, error) { return m.CreateRXFunc(p) }
func (m *MockTransport) Destroy(id StreamId) error                 { return m.DestroyFunc(id) }
func (m *MockTransport) GetNextChunk(id StreamId) (ChunkSlot, error) {
	return m.GetNextChunkFunc(id)
}
func (m *MockTransport) CommitChunk(id StreamId, s ChunkSlot, ts uint64) error {
	return m.CommitChunkFunc(id, s, ts)
}
func (m *MockTransport) GetNextCompletion(id StreamId) (Completion, error) {
	return m.GetNextCompletionFunc(id)
}
func (m *MockTransport) AttachFlow(id StreamId, f Flow) error { return m.AttachFlowFunc(id, f) }
func (m *MockTransport) DetachFlow(id StreamId, t FlowTag) error {
	return m.DetachFlowFunc(id, t)
}
func (m *MockTransport) RequestNotification(id StreamId) error {
	return m.RequestNotificationFunc(id)
}
func (m *MockTransport) Features() TransportFeatures { return m.FeaturesFunc() }
func (m *MockTransport) Close() error                { return m.CloseFunc() }
