// Package testutil provides test doubles and fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockStore is a mock implementation of types.Store for testing.
type MockStore struct {
	mock.Mock
}

// CreateOrGetGroup mocks the CreateOrGetGroup method.
func (m *MockStore) CreateOrGetGroup(title string) types.GroupHandle {
	args := m.Called(title)
	return args.Get(0).(types.GroupHandle)
}

// RemoveGroup mocks the RemoveGroup method.
func (m *MockStore) RemoveGroup(title string) {
	m.Called(title)
}

// ExpectGroup makes CreateOrGetGroup(title) return group for any number of calls.
func (m *MockStore) ExpectGroup(title string, group types.GroupHandle) {
	m.On("CreateOrGetGroup", title).Return(group)
}

// Removed returns the titles passed to RemoveGroup, in call order.
func (m *MockStore) Removed() []string {
	var titles []string
	for _, call := range m.Calls {
		if call.Method == "RemoveGroup" {
			titles = append(titles, call.Arguments.String(0))
		}
	}
	return titles
}

// MockGroup is a mock implementation of types.GroupHandle for testing.
type MockGroup struct {
	mock.Mock
}

// SetParameters mocks the SetParameters method.
func (m *MockGroup) SetParameters(params types.GroupParams) {
	m.Called(params)
}

// AddDecorator mocks the AddDecorator method.
func (m *MockGroup) AddDecorator(decorator types.Decorator) {
	m.Called(decorator)
}

// AddEntry mocks the AddEntry method.
func (m *MockGroup) AddEntry(name string, render types.RenderFunc, params types.EntryParams) error {
	args := m.Called(name, render, params)
	return args.Error(0)
}

// EntryNames returns the names passed to AddEntry, in call order.
func (m *MockGroup) EntryNames() []string {
	var names []string
	for _, call := range m.Calls {
		if call.Method == "AddEntry" {
			names = append(names, call.Arguments.String(0))
		}
	}
	return names
}

// EntryParams returns the parameter bags passed to AddEntry, in call order.
func (m *MockGroup) EntryParams() []types.EntryParams {
	var params []types.EntryParams
	for _, call := range m.Calls {
		if call.Method == "AddEntry" {
			params = append(params, call.Arguments.Get(2).(types.EntryParams))
		}
	}
	return params
}

// GroupParams returns the last bag passed to SetParameters.
func (m *MockGroup) GroupParams() (types.GroupParams, bool) {
	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Method == "SetParameters" {
			return m.Calls[i].Arguments.Get(0).(types.GroupParams), true
		}
	}
	return types.GroupParams{}, false
}

// NewMockStore creates a mock store that accepts any removal.
func NewMockStore(t *testing.T) *MockStore {
	t.Helper()
	m := new(MockStore)

	// Default behavior: removals are allowed
	m.On("RemoveGroup", mock.Anything).Return().Maybe()

	return m
}

// NewMockGroup creates a mock group with default behaviors.
func NewMockGroup(t *testing.T) *MockGroup {
	t.Helper()
	m := new(MockGroup)

	// Default behavior: every registration call succeeds
	m.On("SetParameters", mock.Anything).Return().Maybe()
	m.On("AddDecorator", mock.Anything).Return().Maybe()
	m.On("AddEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	return m
}

// NewObservedLogger returns a logger whose warnings and errors are captured.
func NewObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

// Render returns a render function producing value.
func Render(value interface{}) types.RenderFunc {
	return func(types.Args) interface{} { return value }
}

// NewExports builds a module titled title with one story per key, in order.
func NewExports(title string, keys ...string) *types.Exports {
	exports := &types.Exports{Default: &types.Meta{Title: title}}
	for _, key := range keys {
		exports.Named = append(exports.Named, types.NamedExport{
			Key:   key,
			Story: &types.Story{Render: Render(key)},
		})
	}
	return exports
}

// Unit wraps exports in a unit, assigning handle when exports has none.
func Unit(handle types.Handle, exports *types.Exports) types.Unit {
	if exports != nil && exports.Handle == "" {
		exports.Handle = handle
	}
	return types.Unit{Handle: handle, Exports: exports, Path: string(handle)}
}
