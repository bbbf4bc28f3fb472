package bookmark

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/treykane/sshmark/internal/appconfig"
)

func testPaths(t *testing.T) appconfig.Paths {
	t.Helper()
	return appconfig.Paths{DataHome: filepath.Join(t.TempDir(), appconfig.AppName)}
}

func writeDoc(t *testing.T, p appconfig.Paths, content string) string {
	t.Helper()
	path, err := p.PlaceDataFile(FileName)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingDocument(t *testing.T) {
	s, err := Load(testPaths(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 0 || s.Path() != "" {
		t.Fatalf("expected empty store, got %d entries at %q", s.Len(), s.Path())
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	p := testPaths(t)
	path := writeDoc(t, p, "")
	s, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", s.Len())
	}
	if s.Path() != path {
		t.Fatalf("expected path %s, got %s", path, s.Path())
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	p := testPaths(t)
	path := writeDoc(t, p, `{"work": {"addr": `)
	_, err := Load(p)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Path != path {
		t.Fatalf("expected path %s in error, got %s", path, de.Path)
	}
}

func TestRemoveScenario(t *testing.T) {
	p := testPaths(t)
	writeDoc(t, p, `{"work": {"addr":"alice@10.0.0.5"}}`)
	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := s.Remove("work")
	if !ok {
		t.Fatal("expected work to be present")
	}
	if e.Addr != "alice@10.0.0.5" || e.Args != nil {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if _, ok := s.Get("work"); ok {
		t.Fatal("expected work to be gone after remove")
	}
}

func TestRemoveAbsentKey(t *testing.T) {
	s, err := Load(testPaths(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("a", "b")
	if _, ok := s.Remove("missing"); ok {
		t.Fatal("expected absent result")
	}
	if s.Len() != 1 {
		t.Fatalf("store mutated by absent remove: %d entries", s.Len())
	}
}

func TestInsertGet(t *testing.T) {
	s, err := Load(testPaths(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("db", "bob@10.0.0.9", "-i ~/.ssh/id_rsa -p 2222")
	e, ok := s.Get("db")
	if !ok {
		t.Fatal("expected db")
	}
	if e.Addr != "bob@10.0.0.9" {
		t.Fatalf("unexpected addr: %s", e.Addr)
	}
	argv, err := e.Argv()
	if err != nil {
		t.Fatal(err)
	}
	want := Argv{"-i", "~/.ssh/id_rsa", "-p", "2222", "bob@10.0.0.9"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv mismatch\nwant=%v\n got=%v", want, argv)
	}

	s.Insert("db", "carol@10.0.0.9")
	if e, _ := s.Get("db"); e.Addr != "carol@10.0.0.9" || e.Args != nil || s.Len() != 1 {
		t.Fatalf("expected overwrite, got %+v (len %d)", e, s.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := testPaths(t)
	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("hello", "world")
	s.Insert("a", "b", "-i ~/.ssh/id_rsa")
	s.Insert("empty", "", "")
	s.Insert("ünï", "us€r@host", "-o 'x'")
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Path() != filepath.Join(p.DataHome, FileName) {
		t.Fatalf("unexpected save path: %s", s.Path())
	}
	st, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected mode %#o", st.Mode().Perm())
	}

	got, err := Load(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(got.Entries(), s.Entries()) {
		t.Fatalf("round trip mismatch\nwant=%+v\n got=%+v", s.Entries(), got.Entries())
	}
	if e, _ := got.Get("empty"); e.Args == nil {
		t.Fatal("expected empty-but-present args to survive round trip")
	}
}

func TestSaveReusesExistingDocument(t *testing.T) {
	home := filepath.Join(t.TempDir(), appconfig.AppName)
	sys := filepath.Join(t.TempDir(), appconfig.AppName)
	if err := os.MkdirAll(sys, 0o700); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(sys, FileName)
	if err := os.WriteFile(existing, []byte(`{"x":{"addr":"y"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	p := appconfig.Paths{DataHome: home, DataDirs: []string{sys}}
	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("z", "w")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	if s.Path() != existing {
		t.Fatalf("expected save to reuse %s, got %s", existing, s.Path())
	}
	if _, err := os.Stat(filepath.Join(home, FileName)); !os.IsNotExist(err) {
		t.Fatalf("expected no new document in data home, stat err=%v", err)
	}
	entries, err := os.ReadDir(sys)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestSavePrettyPrints(t *testing.T) {
	p := testPaths(t)
	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("work", "alice@10.0.0.5")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"work\": {\n    \"addr\": \"alice@10.0.0.5\"\n  }\n}"
	if string(b) != want {
		t.Fatalf("document mismatch\nwant=%q\n got=%q", want, b)
	}
}

func TestStringAlignsKeys(t *testing.T) {
	s, err := Load(testPaths(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("work", "alice@10.0.0.5")
	s.Insert("db", "bob@10.0.0.9", "-p 2222")
	want := "  db -> (addr: bob@10.0.0.9, args: [\"-p\", \"2222\"])\n" +
		"work -> (addr: alice@10.0.0.5)"
	if got := s.String(); got != want {
		t.Fatalf("display mismatch\nwant=%q\n got=%q", want, got)
	}
}

func TestFormatSkipsUnknownKeys(t *testing.T) {
	s, err := Load(testPaths(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("b", "host-b")
	s.Insert("a", "host-a")
	got := s.Format([]string{"b", "missing-and-long", "a"})
	want := "b -> (addr: host-b)\na -> (addr: host-a)"
	if got != want {
		t.Fatalf("format mismatch\nwant=%q\n got=%q", want, got)
	}
	empty, err := Load(testPaths(t))
	if err != nil {
		t.Fatal(err)
	}
	if empty.String() != "" {
		t.Fatalf("expected empty rendering, got %q", empty.String())
	}
}

func TestSaveRejectsInvalidUTF8(t *testing.T) {
	cases := []struct {
		key, addr, args, field string
	}{
		{"k", "us\xffer@host", "", "addr"},
		{"k", "user@host", "-p 22 -o\xfe", "args[2]"},
		{"k\xff", "user@host", "", "key"},
	}
	for _, tc := range cases {
		p := testPaths(t)
		path := writeDoc(t, p, `{"ok":{"addr":"alice@10.0.0.5"}}`)
		s, err := Load(p)
		if err != nil {
			t.Fatal(err)
		}
		if tc.args == "" {
			s.Insert(tc.key, tc.addr)
		} else {
			s.Insert(tc.key, tc.addr, tc.args)
		}
		err = s.Save()
		var ue *InvalidUTF8Error
		if !errors.As(err, &ue) || ue.Field != tc.field {
			t.Fatalf("%q: expected InvalidUTF8Error on %s, got %v", tc.addr, tc.field, err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != `{"ok":{"addr":"alice@10.0.0.5"}}` {
			t.Fatalf("document changed after rejected save: %s", b)
		}
	}
}

func TestSaveFollowsSymlinkedDocument(t *testing.T) {
	p := testPaths(t)
	if err := os.MkdirAll(p.DataHome, 0o700); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(t.TempDir(), "dotfiles-bookmarks.json")
	if err := os.WriteFile(target, []byte(`{"a":{"addr":"b"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(p.DataHome, FileName)
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	s.Insert("c", "d")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	st, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode()&os.ModeSymlink == 0 {
		t.Fatal("expected the document to remain a symlink")
	}
	got, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Get("c"); !ok || got.Len() != 2 {
		t.Fatalf("expected link target to hold both entries, got %+v", got.Entries())
	}
	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestLoadRejectsEntryWithoutAddr(t *testing.T) {
	for _, doc := range []string{
		`{"k": {}}`,
		`{"k": null}`,
		`{"k": {"addr": null}}`,
		`{"k": {"args": ["-p", "22"]}}`,
	} {
		p := testPaths(t)
		path := writeDoc(t, p, doc)
		_, err := Load(p)
		var de *DecodeError
		if !errors.As(err, &de) || de.Path != path {
			t.Fatalf("%s: expected DecodeError, got %v", doc, err)
		}
	}
}

func TestLoadKeepsEmptyAddr(t *testing.T) {
	p := testPaths(t)
	writeDoc(t, p, `{"k": {"addr": "", "args": null}}`)
	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if e, ok := s.Get("k"); !ok || e.Addr != "" || e.Args != nil {
		t.Fatalf("unexpected entry %+v", e)
	}
}
