package tree

import (
	"errors"
	"testing"
)

func TestEqual_Scalars(t *testing.T) {
	cases := []struct {
		name string
		a, b *Node
		want bool
	}{
		{"same string", Scalar("no"), Scalar("no"), true},
		{"different string", Scalar("no"), Scalar("yes"), false},
		{"string vs int", Scalar("1"), Scalar(1), false},
		{"int vs float", Scalar(1), Scalar(1.0), false},
		{"both nil", Scalar(nil), Scalar(nil), true},
		{"nil vs false", Scalar(nil), Scalar(false), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEqual_MappingOrderInsensitive(t *testing.T) {
	a := Mapping().Set("x", Scalar(1)).Set("y", Scalar(2))
	b := Mapping().Set("y", Scalar(2)).Set("x", Scalar(1))

	if !a.Equal(b) {
		t.Error("mappings with same entries in different order should be equal")
	}
}

func TestEqual_SequenceOrderSensitive(t *testing.T) {
	a := Sequence(Scalar("a"), Scalar("b"))
	b := Sequence(Scalar("b"), Scalar("a"))

	if a.Equal(b) {
		t.Error("sequences with reordered items should not be equal")
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Mapping().Set("x", Scalar(1)).Set("y", Sequence(Scalar("a")))
	b := Mapping().Set("y", Sequence(Scalar("a"))).Set("x", Scalar(1))

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("equal trees produced different fingerprints: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}

func TestFingerprint_DistinguishesTypes(t *testing.T) {
	if Scalar("1").Fingerprint() == Scalar(1).Fingerprint() {
		t.Error("string and int scalars should have distinct fingerprints")
	}
	if Scalar(nil).Fingerprint() == Scalar("null").Fingerprint() {
		t.Error("null and the string \"null\" should have distinct fingerprints")
	}
}

func TestPath_String(t *testing.T) {
	p := Path{}.Child("server").Child("listen").Index(0).Child("port")

	if got := p.String(); got != "server.listen[0].port" {
		t.Errorf("Path.String() = %q, want %q", got, "server.listen[0].port")
	}

	if got := (Path{}).String(); got != "." {
		t.Errorf("root path rendered as %q, want %q", got, ".")
	}
}

func TestPath_ChildDoesNotAliasParent(t *testing.T) {
	base := Path{}.Child("a")
	p1 := base.Child("b")
	p2 := base.Child("c")

	if p1.Equal(p2) {
		t.Error("sibling paths should not be equal")
	}
	if p1.String() != "a.b" || p2.String() != "a.c" {
		t.Errorf("sibling paths corrupted: %q, %q", p1, p2)
	}
}

func TestParse_YAMLKeyOrderPreserved(t *testing.T) {
	node, err := Parse([]byte("b: 1\na: 2\nc: 3\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"b", "a", "c"}
	if len(node.Keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(node.Keys))
	}
	for i, key := range want {
		if node.Keys[i] != key {
			t.Errorf("key %d = %q, want %q", i, node.Keys[i], key)
		}
	}
}

func TestParse_ScalarTypes(t *testing.T) {
	node, err := Parse([]byte("port: 22\nratio: 0.5\nenabled: true\nname: sshd\nempty: null\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if v := node.Get("port").Value; v != int64(22) {
		t.Errorf("port = %v (%T), want int64(22)", v, v)
	}
	if v := node.Get("ratio").Value; v != 0.5 {
		t.Errorf("ratio = %v (%T), want float64(0.5)", v, v)
	}
	if v := node.Get("enabled").Value; v != true {
		t.Errorf("enabled = %v (%T), want true", v, v)
	}
	if v := node.Get("name").Value; v != "sshd" {
		t.Errorf("name = %v (%T), want \"sshd\"", v, v)
	}
	if v := node.Get("empty").Value; v != nil {
		t.Errorf("empty = %v (%T), want nil", v, v)
	}
}

func TestParse_JSON(t *testing.T) {
	node, err := Parse([]byte(`{"server": {"port": 8080, "hosts": ["a", "b"]}}`))
	if err != nil {
		t.Fatalf("Parse failed on JSON input: %v", err)
	}

	server := node.Get("server")
	if server == nil || server.Kind != KindMapping {
		t.Fatal("expected server mapping")
	}
	if v := server.Get("port").Value; v != int64(8080) {
		t.Errorf("port = %v, want 8080", v)
	}
	hosts := server.Get("hosts")
	if hosts == nil || hosts.Kind != KindSequence || len(hosts.Items) != 2 {
		t.Fatal("expected hosts sequence with 2 items")
	}
}

func TestParse_DuplicateKeyRejected(t *testing.T) {
	_, err := Parse([]byte("a: 1\na: 2\n"))
	if err == nil {
		t.Fatal("expected error for duplicate mapping key")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	node, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if node.Kind != KindMapping || len(node.Children) != 0 {
		t.Errorf("empty document should parse to an empty mapping, got %+v", node)
	}
}

func TestFromValue_Cycle(t *testing.T) {
	m := map[string]interface{}{}
	m["self"] = m

	_, err := FromValue(m)
	if err == nil {
		t.Fatal("expected error for cyclic value")
	}
	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected *PathError, got %T", err)
	}
	if !errors.Is(err, ErrMalformed) {
		t.Error("PathError should unwrap to ErrMalformed")
	}
}

func TestFromValue_UnsupportedType(t *testing.T) {
	_, err := FromValue(map[string]interface{}{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected error for unsupported value type")
	}
	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected *PathError, got %T", err)
	}
	if pathErr.Path.String() != "ch" {
		t.Errorf("error path = %q, want %q", pathErr.Path, "ch")
	}
}

func TestValidate_WellFormed(t *testing.T) {
	node := Mapping().
		Set("a", Scalar(1)).
		Set("b", Sequence(Scalar("x"), Mapping().Set("c", Scalar(nil))))

	if err := Validate(node); err != nil {
		t.Errorf("Validate failed on well-formed tree: %v", err)
	}
}

func TestValidate_Cycle(t *testing.T) {
	node := Mapping()
	node.Set("self", node)

	if err := Validate(node); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for cyclic tree, got %v", err)
	}
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	node := Mapping().
		Set("b", Scalar(1)).
		Set("a", Sequence(Scalar("x"), Scalar(true)))

	data, err := node.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	// Key order must survive serialization.
	want := `{"b":1,"a":["x",true]}`
	if string(data) != want {
		t.Errorf("MarshalJSON = %s, want %s", data, want)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse of marshaled tree failed: %v", err)
	}
	if !parsed.Equal(node) {
		t.Error("tree changed across marshal/parse round trip")
	}
}

func TestWalk_VisitsAllPaths(t *testing.T) {
	node := Mapping().
		Set("a", Scalar(1)).
		Set("b", Sequence(Scalar(2), Scalar(3)))

	visited := map[string]Kind{}
	Walk(node, func(path Path, n *Node) {
		visited[path.String()] = n.Kind
	})

	want := map[string]Kind{
		".":    KindMapping,
		"a":    KindScalar,
		"b":    KindSequence,
		"b[0]": KindScalar,
		"b[1]": KindScalar,
	}
	for path, kind := range want {
		if visited[path] != kind {
			t.Errorf("path %q: got kind %q, want %q", path, visited[path], kind)
		}
	}
	if len(visited) != len(want) {
		t.Errorf("visited %d paths, want %d", len(visited), len(want))
	}
}
