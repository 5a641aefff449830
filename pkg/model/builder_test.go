package model

import (
	"reflect"
	"testing"

	"github.com/wonderfulspam/config-warden/pkg/history"
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

func snapshotsOf(trees ...*tree.Node) []*history.Snapshot {
	out := make([]*history.Snapshot, len(trees))
	for i, root := range trees {
		out[i] = history.NewSnapshot("sshd", root)
	}
	return out
}

func sshdTree(permitRoot string, maxAuth int) *tree.Node {
	return tree.Mapping().
		Set("PermitRootLogin", tree.Scalar(permitRoot)).
		Set("MaxAuthTries", tree.Scalar(maxAuth))
}

func TestBuild_ObservationCounts(t *testing.T) {
	snapshots := snapshotsOf(
		sshdTree("no", 6),
		sshdTree("no", 6),
		sshdTree("no", 6),
	)

	m := NewBuilder().Build("sshd", snapshots)

	if m.SnapshotCount != 3 {
		t.Errorf("SnapshotCount = %d, want 3", m.SnapshotCount)
	}

	profile := m.Profile("PermitRootLogin")
	if profile == nil {
		t.Fatal("missing profile for PermitRootLogin")
	}
	if profile.ObservationCount != 3 {
		t.Errorf("ObservationCount = %d, want 3", profile.ObservationCount)
	}
	if profile.ChangeCount != 0 {
		t.Errorf("ChangeCount = %d, want 0 for a never-changed field", profile.ChangeCount)
	}
	if !m.AlwaysPresent("PermitRootLogin") {
		t.Error("PermitRootLogin should be always present")
	}
}

func TestBuild_ChangeCountsAndValues(t *testing.T) {
	snapshots := snapshotsOf(
		sshdTree("no", 6),
		sshdTree("no", 4),
		sshdTree("no", 6),
	)

	m := NewBuilder().Build("sshd", snapshots)

	profile := m.Profile("MaxAuthTries")
	if profile == nil {
		t.Fatal("missing profile for MaxAuthTries")
	}
	if profile.ChangeCount != 2 {
		t.Errorf("ChangeCount = %d, want 2", profile.ChangeCount)
	}
	if got := profile.Occurrences(tree.Scalar(4).Fingerprint()); got != 1 {
		t.Errorf("occurrences of 4 = %d, want 1", got)
	}
	if got := profile.Occurrences(tree.Scalar(6).Fingerprint()); got != 1 {
		t.Errorf("occurrences of 6 = %d, want 1", got)
	}
	if got := profile.Volatility(); got != 2.0/3.0 {
		t.Errorf("Volatility = %v, want 2/3", got)
	}
}

func TestBuild_PartialPresence(t *testing.T) {
	withBanner := tree.Mapping().
		Set("PermitRootLogin", tree.Scalar("no")).
		Set("Banner", tree.Scalar("/etc/issue"))
	withoutBanner := tree.Mapping().
		Set("PermitRootLogin", tree.Scalar("no"))

	m := NewBuilder().Build("sshd", snapshotsOf(withoutBanner, withBanner, withBanner))

	profile := m.Profile("Banner")
	if profile == nil {
		t.Fatal("missing profile for Banner")
	}
	if profile.ObservationCount != 2 {
		t.Errorf("ObservationCount = %d, want 2", profile.ObservationCount)
	}
	// Appearing between snapshots 0 and 1 is one change (an addition).
	if profile.ChangeCount != 1 {
		t.Errorf("ChangeCount = %d, want 1", profile.ChangeCount)
	}
	if m.AlwaysPresent("Banner") {
		t.Error("Banner should not count as always present")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	snapshots := snapshotsOf(
		sshdTree("no", 6),
		sshdTree("yes", 4),
		sshdTree("no", 6),
	)

	builder := NewBuilder()
	first := builder.Build("sshd", snapshots)
	second := builder.Build("sshd", snapshots)

	if !reflect.DeepEqual(first, second) {
		t.Error("building twice from the same history produced different models")
	}
}

func TestBuild_ObservedValuesBounded(t *testing.T) {
	var trees []*tree.Node
	for i := 0; i < 10; i++ {
		trees = append(trees, tree.Mapping().Set("counter", tree.Scalar(i)))
	}

	m := NewBuilderWithCap(3).Build("app", snapshotsOf(trees...))

	profile := m.Profile("counter")
	if profile == nil {
		t.Fatal("missing profile for counter")
	}
	// 9 transitions, all counted even after the value set stops growing.
	if profile.ChangeCount != 9 {
		t.Errorf("ChangeCount = %d, want 9", profile.ChangeCount)
	}
	if len(profile.ObservedValues) != 3 {
		t.Errorf("observed value set grew to %d entries, cap is 3", len(profile.ObservedValues))
	}
}

func TestBuild_EmptyAndSingleHistory(t *testing.T) {
	builder := NewBuilder()

	empty := builder.Build("new_app", nil)
	if empty.SnapshotCount != 0 || len(empty.Profiles) != 0 {
		t.Errorf("empty history should yield an empty model, got %+v", empty)
	}

	single := builder.Build("new_app", snapshotsOf(sshdTree("no", 6)))
	if single.SnapshotCount != 1 {
		t.Errorf("SnapshotCount = %d, want 1", single.SnapshotCount)
	}
	profile := single.Profile("PermitRootLogin")
	if profile == nil || profile.ObservationCount != 1 || profile.ChangeCount != 0 {
		t.Errorf("unexpected profile from single-snapshot history: %+v", profile)
	}
}

func TestBuild_IntermediateNodesProfiled(t *testing.T) {
	root := tree.Mapping().Set("server", tree.Mapping().Set("port", tree.Scalar(80)))

	m := NewBuilder().Build("nginx", snapshotsOf(root, root))

	for _, path := range []string{".", "server", "server.port"} {
		profile := m.Profile(path)
		if profile == nil {
			t.Errorf("missing profile for %q", path)
			continue
		}
		if profile.ObservationCount != 2 {
			t.Errorf("ObservationCount for %q = %d, want 2", path, profile.ObservationCount)
		}
	}
}
