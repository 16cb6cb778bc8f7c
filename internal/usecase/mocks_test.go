package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/stretchr/testify/mock"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(root string) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot: root,
		Branch:      "develop",
		Project:     config.DefaultProjectConfig(),
	}
}

// MockVersionControl is a mock implementation of VersionControl
type MockVersionControl struct {
	mock.Mock
}

func (m *MockVersionControl) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockVersionControl) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVersionControl) ChangedFiles(ctx context.Context, ref string) ([]string, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVersionControl) Status(ctx context.Context) (*domain.WorkTreeStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkTreeStatus), args.Error(1)
}

func (m *MockVersionControl) Fetch(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockVersionControl) ResetHard(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockVersionControl) CommitAll(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockVersionControl) Tag(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockVersionControl) Push(ctx context.Context, branch string) error {
	return m.Called(ctx, branch).Error(0)
}

func (m *MockVersionControl) PushTags(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fakeArtifacts serves artifacts from memory
type fakeArtifacts struct {
	missing   bool
	artifacts map[string]*domain.Artifact
}

func (f *fakeArtifacts) Exists() bool { return !f.missing }

func (f *fakeArtifacts) Registry(context.Context) (*domain.ContractRegistry, error) {
	loaders := make(map[string]domain.ArtifactLoader, len(f.artifacts))
	for name, a := range f.artifacts {
		loaders[name] = func() (*domain.Artifact, error) { return a, nil }
	}
	return domain.NewContractRegistry(loaders), nil
}

type fakeWhitelist domain.Whitelist

func (f fakeWhitelist) Load(context.Context) (domain.Whitelist, error) {
	return domain.Whitelist(f), nil
}

type fakeProxies domain.ProxyAddressMap

func (f fakeProxies) Load(context.Context) (domain.ProxyAddressMap, error) {
	return domain.ProxyAddressMap(f), nil
}

// fakeBundles records what was saved
type fakeBundles struct {
	set        *domain.BundleSet
	record     domain.DeployedRecord
	copyToDist bool
}

func (f *fakeBundles) SaveBundles(_ context.Context, set *domain.BundleSet) error {
	f.set = set
	return nil
}

func (f *fakeBundles) SaveDeployedRecord(_ context.Context, record domain.DeployedRecord, copyToDist bool) error {
	f.record = record
	f.copyToDist = copyToDist
	return nil
}

// memoryStore is an in-memory content store keyed by a counter-free digest
type memoryStore struct {
	blobs   map[string][]byte
	failPut bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{blobs: map[string][]byte{}}
}

func (s *memoryStore) Put(_ context.Context, data []byte) (string, error) {
	if s.failPut {
		return "", fmt.Errorf("store offline")
	}
	pointer := "mem-" + domain.ContentHash([]string{string(data)})[:16]
	s.blobs[pointer] = append([]byte(nil), data...)
	return pointer, nil
}

func (s *memoryStore) Get(_ context.Context, pointer string) ([]byte, error) {
	data, ok := s.blobs[pointer]
	if !ok {
		return nil, fmt.Errorf("%s: %w", pointer, domain.ErrNotFound)
	}
	return data, nil
}

type fakeSubmodules []domain.Submodule

func (f fakeSubmodules) List(context.Context) ([]domain.Submodule, error) {
	return f, nil
}

type fakeBuilder struct {
	calls int
	err   error
}

func (f *fakeBuilder) Build(context.Context) error {
	f.calls++
	return f.err
}

type fakePointers struct {
	pointers domain.ManifestPointers
	saves    int
}

func (f *fakePointers) Load(context.Context) (domain.ManifestPointers, error) {
	return maps.Clone(f.pointers), nil
}

func (f *fakePointers) Save(_ context.Context, p domain.ManifestPointers) error {
	f.pointers = maps.Clone(p)
	f.saves++
	return nil
}

// runCall is one recorded runner invocation
type runCall struct {
	Network string
	Index   int
	Extra   []string
}

// fakeRunner records migrations and fails on the configured call
type fakeRunner struct {
	compiled int
	calls    []runCall
	failOn   *runCall
}

func (f *fakeRunner) Compile(context.Context) error {
	f.compiled++
	return nil
}

func (f *fakeRunner) RunMigration(_ context.Context, network string, index int, extra []string) error {
	f.calls = append(f.calls, runCall{Network: network, Index: index, Extra: extra})
	if f.failOn != nil && f.failOn.Network == network && f.failOn.Index == index {
		return fmt.Errorf("exit status 1")
	}
	return nil
}

type fakeCatalog int

func (f fakeCatalog) Count(context.Context) (int, error) { return int(f), nil }

type fakeProgress struct {
	progress domain.MigrationProgress
	saves    int
}

func (f *fakeProgress) Load(context.Context) (domain.MigrationProgress, error) {
	if f.progress == nil {
		return domain.MigrationProgress{}, nil
	}
	return maps.Clone(f.progress), nil
}

func (f *fakeProgress) Save(_ context.Context, p domain.MigrationProgress) error {
	f.progress = maps.Clone(p)
	f.saves++
	return nil
}

type fakeSnapshot struct {
	archives int
}

func (f *fakeSnapshot) Archive(context.Context) error {
	f.archives++
	return nil
}

type fakeSelection struct {
	selection *domain.ChangeSet
	err       error
}

func (f fakeSelection) Load(context.Context) (*domain.ChangeSet, error) {
	return f.selection, f.err
}

type fakeAnalyzer struct {
	changeSet domain.ChangeSet
	calls     int
	// runner, when set, has its compile count captured at analysis time
	runner             *fakeRunner
	compiledAtAnalysis int
}

func (f *fakeAnalyzer) Run(context.Context, usecase.AnalyzeChangesParams) (*usecase.AnalyzeChangesResult, error) {
	f.calls++
	if f.runner != nil {
		f.compiledAtAnalysis = f.runner.compiled
	}
	return &usecase.AnalyzeChangesResult{ChangeSet: f.changeSet}, nil
}

type fakeRestorer struct {
	restores int
}

func (f *fakeRestorer) Restore(context.Context) error {
	f.restores++
	return nil
}

type fakePackage struct {
	version string
}

func (f *fakePackage) Version(context.Context) (string, error) { return f.version, nil }

func (f *fakePackage) SetVersion(_ context.Context, v string) error {
	f.version = v
	return nil
}

type fakeConfirmer struct {
	answer bool
	asked  int
}

func (f *fakeConfirmer) Confirm(context.Context, string) (bool, error) {
	f.asked++
	return f.answer, nil
}

// recordingSink records progress events
type recordingSink struct {
	events []usecase.ProgressEvent
	errors []string
}

func (r *recordingSink) OnProgress(_ context.Context, e usecase.ProgressEvent) {
	r.events = append(r.events, e)
}

func (r *recordingSink) Info(string) {}

func (r *recordingSink) Error(msg string) { r.errors = append(r.errors, msg) }
