package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pipely/internal/config"
	"pipely/internal/layout"
	"pipely/internal/manifest"
	"pipely/internal/registry"
	"pipely/internal/synth"
	"pipely/internal/testsupport"
	"pipely/internal/workfile"
	"pipely/internal/workflow"
)

// racingSynth writes the final destination on its first call, simulating a
// second artist claiming the same version.
type racingSynth struct {
	calls int
}

func (r *racingSynth) Synthesize(_ context.Context, req synth.Request, path string) error {
	r.calls++
	if r.calls == 1 {
		if err := os.WriteFile(filepath.Join(filepath.Dir(path), req.FileName), []byte("winner"), 0o644); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte("# "+req.Target+"\n"), 0o644)
}

type failingSynth struct {
	calls int
}

func (f *failingSynth) Synthesize(context.Context, synth.Request, string) error {
	f.calls++
	return errors.New("blender exited with status 1")
}

type failingLedger struct{}

func (failingLedger) RegisterShow(context.Context, registry.Show) (*registry.Show, error) {
	return nil, errors.New("disk full")
}

func (failingLedger) RecordWorkfile(context.Context, registry.Workfile) (*registry.Workfile, error) {
	return nil, errors.New("disk full")
}

func newProject(t *testing.T, cfg *config.Config, mgr *workflow.Manager) workflow.Project {
	t.Helper()
	res, err := mgr.CreateProject(context.Background(), workflow.ProjectRequest{Code: "dmo", Name: "poku short 30s", Template: "animation"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return res.Project
}

func TestCreateProjectScaffoldsAndRegisters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenRegistry(t, cfg)
	mgr := workflow.NewManagerFromConfig(cfg, store, nil)
	ctx := context.Background()

	res, err := mgr.CreateProject(ctx, workflow.ProjectRequest{Code: "dmo", Name: "poku short 30s", Template: "animation_short"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	wantRoot := filepath.Join(cfg.Paths.ProjectsRoot, "AN_DMO_PokuShort30s")
	if res.Root != wantRoot || res.Template != "animation" || res.ShowCode != "DMO" || res.Existing {
		t.Fatalf("unexpected result %+v", res)
	}
	for _, dir := range []string{"05_WORK/shots", "05_WORK/assets"} {
		if info, err := os.Stat(filepath.Join(wantRoot, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
	}
	mf, err := manifest.Load(wantRoot)
	if err != nil {
		t.Fatalf("manifest.Load: %v", err)
	}
	if mf.Code != "DMO" || mf.Template != "animation" {
		t.Fatalf("unexpected manifest %+v", mf)
	}
	show, err := store.Show(ctx, "DMO")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if show.Root != wantRoot {
		t.Fatalf("registered root %s, want %s", show.Root, wantRoot)
	}

	again, err := mgr.CreateProject(ctx, workflow.ProjectRequest{Code: "DMO", Name: "poku short 30s", Template: "animation"})
	if err != nil {
		t.Fatalf("CreateProject again: %v", err)
	}
	if !again.Existing || len(again.Created) != 0 {
		t.Fatalf("second run should be a no-op, got %+v", again)
	}
}

func TestOpenProjectResolvesTemplate(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTemplate("art"))
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)

	created, err := mgr.CreateProject(context.Background(), workflow.ProjectRequest{Code: "GME", Template: "game"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	project, err := mgr.OpenProject(created.Root, "")
	if err != nil {
		t.Fatalf("OpenProject: %v", err)
	}
	if project.Template != "game" || project.ShowCode != "GME" {
		t.Fatalf("manifest not used: %+v", project)
	}

	bare := filepath.Join(t.TempDir(), "DR_INK_Inktober")
	if err := os.MkdirAll(bare, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	project, err = mgr.OpenProject(bare, "")
	if err != nil {
		t.Fatalf("OpenProject bare: %v", err)
	}
	if project.Template != "art" || project.ShowCode != "INK" {
		t.Fatalf("expected default template and folder code, got %+v", project)
	}

	project, err = mgr.OpenProject(bare, "drawing_single")
	if err != nil || project.Template != "art" {
		t.Fatalf("explicit alias not honoured: %+v %v", project, err)
	}

	if _, err := mgr.OpenProject(filepath.Join(bare, "missing"), ""); !errors.Is(err, layout.ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestAddWorkfileCreatesAndRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenRegistry(t, cfg)
	mgr := workflow.NewManagerFromConfig(cfg, store, nil)
	project := newProject(t, cfg, mgr)
	ctx := context.Background()

	req := workflow.AddRequest{Project: project, Target: "DMO_SH010", TargetKind: layout.TargetShot, Kind: "markdown"}
	first, err := mgr.AddWorkfile(ctx, req)
	if err != nil {
		t.Fatalf("AddWorkfile: %v", err)
	}
	want := filepath.Join(project.Root, "05_WORK", "shots", "DMO_SH010", "DMO_SH010_markdown_w001.md")
	if first.Path != want || first.Version != 1 || first.Retried || !first.Recorded {
		t.Fatalf("unexpected result %+v", first)
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "# DMO_SH010\n" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}

	second, err := mgr.AddWorkfile(ctx, req)
	if err != nil {
		t.Fatalf("AddWorkfile second: %v", err)
	}
	if second.Version != 2 {
		t.Fatalf("expected w002, got %d", second.Version)
	}

	rows, err := store.Workfiles(ctx, registry.Filter{ShowCode: "DMO", Target: "DMO_SH010"})
	if err != nil {
		t.Fatalf("Workfiles: %v", err)
	}
	if len(rows) != 2 || rows[0].TargetKind != "shot" {
		t.Fatalf("unexpected ledger rows %+v", rows)
	}
}

func TestAddWorkfileAssetSubtree(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	project := newProject(t, cfg, mgr)

	res, err := mgr.AddWorkfile(context.Background(), workflow.AddRequest{Project: project, Target: "DMO_CH_Hero", TargetKind: layout.TargetAsset, Kind: "fountain"})
	if err != nil {
		t.Fatalf("AddWorkfile: %v", err)
	}
	if res.Dir != filepath.Join(project.Root, "05_WORK", "assets", "DMO_CH_Hero") || res.Recorded {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAddWorkfileRetriesCollisionOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	racer := &racingSynth{}
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil, workfile.WithSynthesizer("markdown", racer))
	project := newProject(t, cfg, mgr)

	res, err := mgr.AddWorkfile(context.Background(), workflow.AddRequest{Project: project, Target: "DMO_SH010", TargetKind: layout.TargetShot, Kind: "markdown"})
	if err != nil {
		t.Fatalf("AddWorkfile: %v", err)
	}
	if !res.Retried || res.Version != 2 || racer.calls != 2 {
		t.Fatalf("expected one retry landing on w002, got %+v (calls %d)", res, racer.calls)
	}
	winner, err := os.ReadFile(filepath.Join(res.Dir, "DMO_SH010_markdown_w001.md"))
	if err != nil || string(winner) != "winner" {
		t.Fatalf("concurrent writer's file changed: %q (%v)", winner, err)
	}
	if names := testsupport.ListDir(t, res.Dir); len(names) != 2 {
		t.Fatalf("expected exactly two files, got %v", names)
	}
}

func TestAddWorkfileDoesNotRetrySynthesisFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	failing := &failingSynth{}
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil, workfile.WithSynthesizer("blender", failing))
	project := newProject(t, cfg, mgr)

	res, err := mgr.AddWorkfile(context.Background(), workflow.AddRequest{Project: project, Target: "DMO_SH010", TargetKind: layout.TargetShot, Kind: "blender"})
	if !errors.Is(err, workfile.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v (%+v)", err, res)
	}
	if failing.calls != 1 {
		t.Fatalf("synthesis failure retried %d times", failing.calls)
	}
	dir := filepath.Join(project.Root, "05_WORK", "shots", "DMO_SH010")
	if names := testsupport.ListDir(t, dir); len(names) != 0 {
		t.Fatalf("expected empty directory, got %v", names)
	}
}

func TestAddWorkfileSurvivesLedgerFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, failingLedger{}, nil)
	project := newProject(t, cfg, mgr)

	res, err := mgr.AddWorkfile(context.Background(), workflow.AddRequest{Project: project, Target: "DMO_SH010", TargetKind: layout.TargetShot, Kind: "image"})
	if err != nil {
		t.Fatalf("AddWorkfile: %v", err)
	}
	if res.Recorded {
		t.Fatal("expected Recorded=false when the ledger fails")
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Fatalf("workfile missing: %v", err)
	}
}

func TestAddWorkfileRejectsBadInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	project := newProject(t, cfg, mgr)
	ctx := context.Background()

	if _, err := mgr.AddWorkfile(ctx, workflow.AddRequest{Project: project, Target: "DMO_SH010", TargetKind: "sequence", Kind: "markdown"}); !errors.Is(err, layout.ErrInvalidTargetKind) {
		t.Fatalf("expected ErrInvalidTargetKind, got %v", err)
	}
	if _, err := mgr.AddWorkfile(ctx, workflow.AddRequest{Project: project, Target: "../escape", TargetKind: layout.TargetShot, Kind: "markdown"}); !errors.Is(err, layout.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	bad := project
	bad.Template = "opera"
	if _, err := mgr.AddWorkfile(ctx, workflow.AddRequest{Project: bad, Target: "DMO_SH010", TargetKind: layout.TargetShot, Kind: "markdown"}); !errors.Is(err, layout.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestAddWorkfilePlaceholderPolicy(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutPlaceholders())
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	project := newProject(t, cfg, mgr)

	_, err := mgr.AddWorkfile(context.Background(), workflow.AddRequest{Project: project, Target: "DMO_SH010", TargetKind: layout.TargetShot, Kind: "pureref"})
	if !errors.Is(err, workfile.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestListAndLatestWorkfiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	project := newProject(t, cfg, mgr)

	shotDir := filepath.Join(project.Root, "05_WORK", "shots", "DMO_SH010")
	assetDir := filepath.Join(project.Root, "05_WORK", "assets", "DMO_CH_Hero")
	testsupport.WriteFile(t, filepath.Join(shotDir, "DMO_SH010_blender_w001.blend"), "a")
	testsupport.WriteFile(t, filepath.Join(shotDir, "DMO_SH010_blender_w003.blend"), "b")
	testsupport.WriteFile(t, filepath.Join(shotDir, "DMO_SH010_krita_w002.kra"), "c")
	testsupport.WriteFile(t, filepath.Join(shotDir, "DMO_SH010_blender_w003.blend1"), "backup")
	testsupport.WriteFile(t, filepath.Join(shotDir, "notes.txt"), "stray")
	testsupport.WriteFile(t, filepath.Join(assetDir, "DMO_CH_Hero_blender_w001.blend"), "d")

	all, err := mgr.ListWorkfiles(workflow.ListRequest{Project: project})
	if err != nil {
		t.Fatalf("ListWorkfiles: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 workfiles, got %+v", all)
	}
	if all[0].TargetKind != layout.TargetShot || all[0].FileName != "DMO_SH010_blender_w001.blend" || all[3].TargetKind != layout.TargetAsset {
		t.Fatalf("unexpected order %+v", all)
	}

	blender, err := mgr.ListWorkfiles(workflow.ListRequest{Project: project, Kind: "blender", Target: "DMO_SH010"})
	if err != nil {
		t.Fatalf("ListWorkfiles filtered: %v", err)
	}
	if len(blender) != 2 {
		t.Fatalf("expected 2 blender files, got %+v", blender)
	}

	latest, err := mgr.LatestWorkfile(project, "DMO_SH010", layout.TargetShot, "blender")
	if err != nil {
		t.Fatalf("LatestWorkfile: %v", err)
	}
	if latest.Version != 3 {
		t.Fatalf("expected w003, got %+v", latest)
	}

	if _, err := mgr.LatestWorkfile(project, "DMO_SH020", layout.TargetShot, "blender"); !errors.Is(err, workflow.ErrNoWorkfile) {
		t.Fatalf("expected ErrNoWorkfile, got %v", err)
	}
}

func TestLatestWorkfileTiesPreferNewest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	project := newProject(t, cfg, mgr)

	dir := filepath.Join(project.Root, "05_WORK", "shots", "DMO_SH010")
	older := filepath.Join(dir, "DMO_SH010_blender_w002.blend")
	newer := filepath.Join(dir, "DMO_SH010_krita_w002.kra")
	testsupport.WriteFile(t, older, "a")
	testsupport.WriteFile(t, newer, "b")
	now := time.Now()
	testsupport.Touch(t, older, now.Add(-time.Hour))
	testsupport.Touch(t, newer, now)

	latest, err := mgr.LatestWorkfile(project, "DMO_SH010", layout.TargetShot, "")
	if err != nil {
		t.Fatalf("LatestWorkfile: %v", err)
	}
	if latest.Path != newer {
		t.Fatalf("expected newest file on tie, got %s", latest.Path)
	}
}

func TestNextWorkfileDoesNotWrite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	project := newProject(t, cfg, mgr)

	version, path, err := mgr.NextWorkfile(workflow.AddRequest{Project: project, Target: "DMO_SH050", TargetKind: layout.TargetShot, Kind: "krita"})
	if err != nil {
		t.Fatalf("NextWorkfile: %v", err)
	}
	if version != 1 || filepath.Base(path) != "DMO_SH050_krita_w001.kra" {
		t.Fatalf("unexpected next %d %s", version, path)
	}
	if _, err := os.Stat(filepath.Dir(path)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("NextWorkfile created the target directory: %v", err)
	}
}

func TestNextWorkfileRejectsUnknownTargetKind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	project := newProject(t, cfg, mgr)

	for _, targetKind := range []layout.TargetKind{"", "sequence"} {
		_, _, err := mgr.NextWorkfile(workflow.AddRequest{Project: project, Target: "DMO_SH010", TargetKind: targetKind, Kind: "markdown"})
		if !errors.Is(err, layout.ErrInvalidTargetKind) {
			t.Fatalf("target kind %q: expected ErrInvalidTargetKind, got %v", targetKind, err)
		}
	}
}

func TestCreateProjectParentIsAFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	parent := filepath.Join(t.TempDir(), "projects")
	if err := os.WriteFile(parent, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := mgr.CreateProject(context.Background(), workflow.ProjectRequest{Code: "dmo", Name: "poku", Template: "animation", Parent: parent})
	if !errors.Is(err, layout.ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot, got %v", err)
	}
	if errors.Is(err, layout.ErrPermissionDenied) {
		t.Fatalf("a file in the way is not a permission problem: %v", err)
	}
}

func TestCreateProjectFolderBlockedByFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	if err := os.MkdirAll(cfg.Paths.ProjectsRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	blocker := filepath.Join(cfg.Paths.ProjectsRoot, "AN_DMO_Poku")
	if err := os.WriteFile(blocker, []byte("stray export"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := mgr.CreateProject(context.Background(), workflow.ProjectRequest{Code: "dmo", Name: "poku", Template: "animation"})
	if err == nil {
		t.Fatal("expected an error when a file occupies the project folder")
	}
	if errors.Is(err, layout.ErrPermissionDenied) {
		t.Fatalf("a file in the way is not a permission problem: %v", err)
	}
}

func TestCreateProjectUnwritableParentIsPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	cfg := testsupport.NewConfig(t)
	mgr := workflow.NewManagerFromConfig(cfg, nil, nil)
	locked := t.TempDir()
	if err := os.Chmod(locked, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := mgr.CreateProject(context.Background(), workflow.ProjectRequest{Code: "dmo", Name: "poku", Template: "animation", Parent: filepath.Join(locked, "projects")})
	if !errors.Is(err, layout.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestResolveTargetKind(t *testing.T) {
	cases := []struct {
		value    string
		target   string
		want     layout.TargetKind
		inferred bool
	}{
		{"shot", "Hero", layout.TargetShot, false},
		{"assets", "DMO_SH010", layout.TargetAsset, false},
		{"auto", "DMO_SH010", layout.TargetShot, true},
		{"AUTO", "DMO_CH_Hero", layout.TargetAsset, true},
	}
	for _, tc := range cases {
		got, inferred, err := workflow.ResolveTargetKind(tc.value, tc.target)
		if err != nil {
			t.Fatalf("ResolveTargetKind(%q): %v", tc.value, err)
		}
		if got != tc.want || inferred != tc.inferred {
			t.Fatalf("ResolveTargetKind(%q, %q) = %s, %v", tc.value, tc.target, got, inferred)
		}
	}
	if _, _, err := workflow.ResolveTargetKind("sequence", "x"); !errors.Is(err, layout.ErrInvalidTargetKind) {
		t.Fatalf("expected ErrInvalidTargetKind, got %v", err)
	}
}
