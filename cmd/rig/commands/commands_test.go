package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/cmd/rig/commands"
	"go.trai.ch/rig/internal/adapters/telemetry"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports/mocks"
	"go.trai.ch/rig/internal/engine/fetcher"
	"go.trai.ch/rig/internal/engine/lifecycle"
	"go.trai.ch/rig/internal/engine/resolver"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

type harness struct {
	cli      *commands.CLI
	out      *bytes.Buffer
	profiles *mocks.MockProfileLoader
	locks    *mocks.MockLockStore
	executor *mocks.MockExecutor
	manager  *mocks.MockPackageManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	h := &harness{
		out:      &bytes.Buffer{},
		profiles: mocks.NewMockProfileLoader(ctrl),
		locks:    mocks.NewMockLockStore(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		manager:  mocks.NewMockPackageManager(ctrl),
	}
	tel := telemetry.NewNoOp()
	a := app.New(
		h.profiles,
		resolver.NewGamaResolver(),
		fetcher.New(h.manager, log),
		lifecycle.NewRunner(h.executor, tel, log),
		h.locks,
		tel,
		log,
	)
	h.cli = commands.New(a)
	h.cli.SetOutput(h.out)
	return h
}

func (h *harness) run(args ...string) error {
	h.cli.SetArgs(args)
	return h.cli.Execute(context.Background())
}

func TestResolve_Text(t *testing.T) {
	h := newHarness(t)
	h.profiles.EXPECT().Load("rig.yaml", false).Return(domain.NewProfile("Linux-x86_64"), nil)

	err := h.run("resolve", "-o", "sqlite3=true", "--test")
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "sqlite3/3.29.0@bincrafters/stable (runtime)")
	assert.Contains(t, out, "libxml2/2.9.9@bincrafters/stable (test-time)")
	assert.Contains(t, out, "USE_SQLITE3=ON")
	assert.Contains(t, out, "test if should_test && !cross_building")
}

func TestResolve_JSON(t *testing.T) {
	h := newHarness(t)
	h.profiles.EXPECT().Load("ci.yaml", true).Return(domain.NewProfile("Linux-x86_64"), nil)

	err := h.run("resolve", "--profile", "ci.yaml", "--format", "json")
	require.NoError(t, err)

	var lock domain.Lockfile
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &lock))
	assert.Equal(t, domain.LockfileVersion, lock.Version)
	assert.Len(t, lock.Dependencies, 2)
	assert.True(t, lock.Definitions["CONAN_EXPORTED"].Bool())
}

func TestResolve_YAML(t *testing.T) {
	h := newHarness(t)
	h.profiles.EXPECT().Load("rig.yaml", false).Return(domain.NewProfile("Linux-x86_64"), nil)

	err := h.run("resolve", "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(h.out.Bytes(), &doc))
	assert.Equal(t, map[string]any{"CONAN_EXPORTED": true}, doc["definitions"])
}

func TestResolve_UnknownFormat(t *testing.T) {
	h := newHarness(t)
	h.profiles.EXPECT().Load("rig.yaml", false).Return(domain.NewProfile("Linux-x86_64"), nil)

	assert.Error(t, h.run("resolve", "--format", "toml"))
}

func TestResolve_Lock(t *testing.T) {
	h := newHarness(t)
	h.profiles.EXPECT().Load("rig.yaml", false).Return(domain.NewProfile("Linux-x86_64"), nil)
	h.locks.EXPECT().Put(gomock.Any()).Return(nil)

	require.NoError(t, h.run("resolve", "--lock"))
}

func TestResolve_LockAndCheckExclusive(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.run("resolve", "--lock", "--check"))
}

func TestResolve_MalformedOverride(t *testing.T) {
	h := newHarness(t)

	err := h.run("resolve", "-o", "sqlite3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchema))
}

func TestResolve_CrossTargetWithoutCompiler(t *testing.T) {
	h := newHarness(t)
	h.profiles.EXPECT().Load("rig.yaml", false).Return(domain.NewProfile("Linux-x86_64"), nil)

	err := h.run("resolve", "--target", "Emscripten-wasm")
	require.Error(t, err)

	msg := commands.FormatError(err)
	assert.Contains(t, msg, "Error: MissingToolchainError:")
	assert.Contains(t, msg, "rule: cross-build")
	assert.Contains(t, msg, "target: Emscripten-wasm")
}

func TestBuild(t *testing.T) {
	h := newHarness(t)
	h.profiles.EXPECT().Load("rig.yaml", false).Return(domain.NewProfile("Linux-x86_64"), nil)
	h.manager.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return("/cache/pkg", nil).Times(2)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

	require.NoError(t, h.run("build", "--install"))

	out := h.out.String()
	assert.Contains(t, out, "configure  completed")
	assert.Contains(t, out, "test       skipped")
	assert.Contains(t, out, "install    completed")
}

func TestOptions(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("options"))

	out := h.out.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "sqlite3")
	assert.Contains(t, out, "Debug|Release|RelWithDebInfo|MinSizeRel")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("version"))
	assert.Equal(t, "rig version dev\n", h.out.String())
}

func TestFormatError_WalksChain(t *testing.T) {
	inner := zerr.With(zerr.Wrap(domain.ErrEnvironment, "command failed"), "exit_code", 2)
	outer := zerr.With(zerr.Wrap(inner, "build failed"), "phase", "build")

	msg := commands.FormatError(outer)
	assert.Equal(t, "Error: EnvironmentError: build failed: command failed: environment error\n"+
		"  exit_code: 2\n"+
		"  phase: build\n", msg)
}
