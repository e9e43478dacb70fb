package allocator

import (
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockOsBackend is a hand-written gomock mock of osBackend, the shape
// mockgen -source=osbackend.go would produce. Used where a test needs to
// assert exactly how many times a backend method was called, or needs a
// failure on one specific call among several (fakeBackend is simpler for
// everything else and is preferred there).
type MockOsBackend struct {
	ctrl     *gomock.Controller
	recorder *MockOsBackendMockRecorder
}

type MockOsBackendMockRecorder struct {
	mock *MockOsBackend
}

func NewMockOsBackend(ctrl *gomock.Controller) *MockOsBackend {
	m := &MockOsBackend{ctrl: ctrl}
	m.recorder = &MockOsBackendMockRecorder{mock: m}

	return m
}

func (m *MockOsBackend) EXPECT() *MockOsBackendMockRecorder {
	return m.recorder
}

func (m *MockOsBackend) breakAdjust(delta int64) (uintptr, error) {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "breakAdjust", delta)
	ret0, _ := ret[0].(uintptr)
	ret1, _ := ret[1].(error)

	return ret0, ret1
}

func (mr *MockOsBackendMockRecorder) breakAdjust(delta interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "breakAdjust",
		reflect.TypeOf((*MockOsBackend)(nil).breakAdjust), delta)
}

func (m *MockOsBackend) mapAnonymous(size uintptr) (uintptr, error) {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "mapAnonymous", size)
	ret0, _ := ret[0].(uintptr)
	ret1, _ := ret[1].(error)

	return ret0, ret1
}

func (mr *MockOsBackendMockRecorder) mapAnonymous(size interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "mapAnonymous",
		reflect.TypeOf((*MockOsBackend)(nil).mapAnonymous), size)
}

func (m *MockOsBackend) unmap(base, size uintptr) error {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "unmap", base, size)
	ret0, _ := ret[0].(error)

	return ret0
}

func (mr *MockOsBackendMockRecorder) unmap(base, size interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "unmap",
		reflect.TypeOf((*MockOsBackend)(nil).unmap), base, size)
}

func (m *MockOsBackend) pageSize() uintptr {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "pageSize")
	ret0, _ := ret[0].(uintptr)

	return ret0
}

func (mr *MockOsBackendMockRecorder) pageSize() *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "pageSize",
		reflect.TypeOf((*MockOsBackend)(nil).pageSize))
}
