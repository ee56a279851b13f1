package dispatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldeval/refold/pkg/config"
	"github.com/foldeval/refold/pkg/exec"
)

func TestBuildInvocation_MotifScaffolding(t *testing.T) {
	cfg := &config.RunConfig{
		Mode:            config.ModeMotifScaffolding,
		QueryPDBFolder:  "/x/y",
		ContigStr:       "10-15/A22-37/20-25",
		ContigCSV:       "/a/b.csv",
		NativePDBFolder: "/c/d",
		Metric:          config.MetricPLDDT,
		PipelineDir:     "/opt/scaffold-lab",
	}

	inv := BuildInvocation(cfg, "/work/out")
	require.NotNil(t, inv)

	assert.Equal(t, MotifRefoldingScript, inv.Script)
	assert.Equal(t, []string{
		"inference.backbone_pdb_dir=/x/y",
		"inference.output_dir=/work/out",
		"inference.motif_csv_dir=/a/b.csv",
		"inference.input_pdbs_dir=/c/d",
	}, inv.Args)
	assert.Equal(t, "/opt/scaffold-lab", inv.Dir)
}

func TestBuildInvocation_Unconditional(t *testing.T) {
	cfg := &config.RunConfig{
		Mode:            config.ModeUnconditional,
		QueryPDBFolder:  "/x/y",
		ContigStr:       config.ContigNone,
		ContigCSV:       "/should/not/appear.csv",
		NativePDBFolder: "/should/not/appear",
		Metric:          config.MetricPAE,
	}

	inv := BuildInvocation(cfg, "/work/out")
	require.NotNil(t, inv)

	assert.Equal(t, UnconditionalRefoldingScript, inv.Script)
	assert.Equal(t, []string{
		"inference.backbone_pdb_dir=/x/y",
		"inference.output_dir=/work/out",
	}, inv.Args)

	// Motif-only fields must not leak into an unconditional run.
	line := inv.String()
	assert.NotContains(t, line, "appear.csv")
	assert.NotContains(t, line, "input_pdbs_dir")
	assert.NotContains(t, line, "motif_csv_dir")
}

func TestBuildInvocation_AdvisoryFieldsNotForwarded(t *testing.T) {
	// contig_str and metric are collected but never passed through. This
	// mirrors what the pipeline entry points actually accept.
	for _, mode := range []string{config.ModeUnconditional, config.ModeMotifScaffolding} {
		cfg := &config.RunConfig{
			Mode:            mode,
			QueryPDBFolder:  "/in",
			ContigStr:       "31-31/B25-46/32-32",
			ContigCSV:       "/m.csv",
			NativePDBFolder: "/native",
			Metric:          config.MetricPAE,
		}
		line := BuildInvocation(cfg, "/out").String()
		assert.NotContains(t, line, cfg.ContigStr, "mode %s", mode)
		assert.NotContains(t, line, cfg.Metric, "mode %s", mode)
	}
}

func TestBuildInvocation_UnknownModeIsNoOp(t *testing.T) {
	// Anything outside the two defined modes falls through with no
	// invocation at all. Pinned here on purpose.
	for _, mode := range []string{"", "motif", "both", "MOTIF_SCAFFOLDING"} {
		cfg := &config.RunConfig{Mode: mode, QueryPDBFolder: "/x/y"}
		if inv := BuildInvocation(cfg, "/out"); inv != nil {
			t.Errorf("mode %q: expected no invocation, got %s", mode, inv.String())
		}
	}
}

func TestBuildInvocation_DefaultPython(t *testing.T) {
	cfg := &config.RunConfig{Mode: config.ModeUnconditional, QueryPDBFolder: "/x"}
	inv := BuildInvocation(cfg, "/out")
	require.NotNil(t, inv)
	assert.Equal(t, "python3", inv.Python)
}

func TestDispatcher_Run(t *testing.T) {
	mock := &exec.MockCommandExecutor{}
	d := &Dispatcher{Executor: mock, Log: testLogger()}

	cfg := &config.RunConfig{
		Mode:            config.ModeMotifScaffolding,
		QueryPDBFolder:  "/x/y",
		ContigCSV:       "/a/b.csv",
		NativePDBFolder: "/c/d",
		PipelineDir:     "/opt/scaffold-lab",
		Python:          "python",
	}

	err := d.Run(BuildInvocation(cfg, "/work/out"))
	require.NoError(t, err)
	require.Len(t, mock.Commands, 1)

	got := mock.Commands[0]
	assert.True(t, strings.HasPrefix(got, "python "+MotifRefoldingScript+" "), got)
	for _, want := range []string{"/x/y", "/a/b.csv", "/c/d", "/work/out"} {
		assert.Contains(t, got, want)
	}
	assert.Equal(t, "/opt/scaffold-lab", mock.Dirs[0])
}

func TestDispatcher_RunNilInvocation(t *testing.T) {
	mock := &exec.MockCommandExecutor{}
	d := &Dispatcher{Executor: mock, Log: testLogger()}

	err := d.Run(nil)
	assert.Error(t, err)
	assert.Empty(t, mock.Commands)
}

func TestDispatcher_RunWrapsFailure(t *testing.T) {
	mock := &exec.MockCommandExecutor{
		ExecuteFunc: func(name string, arg ...string) error {
			return &exec.ExecError{Err: assert.AnError, Output: "CUDA out of memory"}
		},
	}
	d := &Dispatcher{Executor: mock, Log: testLogger()}

	cfg := &config.RunConfig{Mode: config.ModeUnconditional, QueryPDBFolder: "/x"}
	err := d.Run(BuildInvocation(cfg, "/out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline run failed")
	assert.Contains(t, err.Error(), "CUDA out of memory")
	assert.Contains(t, err.Error(), UnconditionalRefoldingScript)
}
